package domain

import "math"

// Trend is a coarse direction classification of a metric over time.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Trend classification thresholds: the last quarter must move more than 5%
// away from the first quarter to count as a change.
const (
	trendUpFactor   = 1.05
	trendDownFactor = 0.95
)

// Summary holds the scalar statistics of a metric matrix.
type Summary struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Trend   Trend   `json:"trend"`
}

// Summarize computes min, max, mean and trend over every present value in m.
// Absent and NaN entries are skipped. A matrix with no present values yields
// the zero summary with a stable trend.
func Summarize(m Matrix) Summary {
	values := flatten(m)
	if len(values) == 0 {
		return Summary{Trend: TrendStable}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return Summary{
		Min:     lo,
		Max:     hi,
		Average: mean(values),
		Trend:   classifyTrend(values),
	}
}

// flatten concatenates the rows of m, dropping absent and NaN entries.
func flatten(m Matrix) []float64 {
	var out []float64
	for _, row := range m {
		for _, v := range row {
			if v == nil || math.IsNaN(*v) {
				continue
			}
			out = append(out, *v)
		}
	}
	return out
}

// classifyTrend compares the mean of the first and last quarters of values.
// values must be non-empty.
func classifyTrend(values []float64) Trend {
	q := len(values) / 4
	if q == 0 {
		q = 1
	}

	first := mean(values[:q])
	last := mean(values[len(values)-q:])

	switch {
	case last > first*trendUpFactor:
		return TrendUp
	case last < first*trendDownFactor:
		return TrendDown
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
