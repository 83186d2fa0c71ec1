// Package domain models the FischCast model skill statistics dataset and the
// pure transformations the dashboard applies to it.
//
// # Data Source
//
// The dataset is a single pre-computed JSON payload (model_skill_stats.json)
// produced by the offline verification job. It is read-only: the service never
// mutates it, and a reload replaces it wholesale.
//
// # Shape
//
//	metadata.dimensions  region, model, forecast_day, date descriptors
//	metadata.variables   [{name, dimensions, shape, description}]
//	date                 [{forecast_day, label: [timestep date labels]}]
//	region               [{id, label, model: [{id, label, variable: [{label, value}]}]}]
//
// Each variable's value is a Matrix indexed [forecast day][timestep]. Entries
// are numbers or null (no verification sample for that cell). Rows are
// expected to be rectangular per variable but nothing enforces it; see
// [Validate] for the consistency checks that run on load.
//
// # Labels
//
// Variable and model labels are compared with Unicode case folding
// everywhere ("Bias", "BIAS" and "bias" are the same metric). Region lookups
// use the numeric id.
//
// # Summary statistics
//
// [Summarize] flattens a matrix, drops absent and NaN entries and reports
// min, max, mean and a coarse trend:
//
//	q     = floor(n/4), or 1 when n < 4
//	first = mean of the first q values
//	last  = mean of the last q values
//	up      when last > first * 1.05
//	down    when last < first * 0.95
//	stable  otherwise
//
// The trend compares quarters of the flattened sequence, which mixes forecast
// days. It is an at-a-glance indicator for the dashboard, not a statistical
// test. An empty or all-absent matrix summarizes to zeros with a stable trend.
//
// # Chart records
//
// [ByForecastDay], [Timeseries] and [Consolidate] reshape matrices into flat
// [Record] sequences that chart and table renderers consume directly.
package domain
