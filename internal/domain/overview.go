package domain

import (
	"math"
	"strings"
)

// DateUnavailable is shown when the dataset carries no date table.
const DateUnavailable = "Date unavailable"

// DatasetOverview is the headline description of a loaded dataset.
type DatasetOverview struct {
	Regions       int      `json:"regions"`
	ForecastDays  int      `json:"forecastDays"`
	FirstDate     string   `json:"firstDate"`
	LastDate      string   `json:"lastDate"`
	Variables     []string `json:"variables"`
	VariableCount int      `json:"variableCount"`
}

// Overview summarizes the size and coverage of d. The first and last dates
// are the first label of the first and last date tables.
func Overview(d *Dataset) DatasetOverview {
	ov := DatasetOverview{
		Regions:      len(d.Region),
		ForecastDays: len(d.Metadata.Dimensions.ForecastDay.Label),
		FirstDate:    DateUnavailable,
		LastDate:     DateUnavailable,
		Variables:    make([]string, 0, len(d.Metadata.Variables)),
	}
	if n := len(d.Date); n > 0 {
		if labels := d.Date[0].Label; len(labels) > 0 {
			ov.FirstDate = labels[0]
		}
		if labels := d.Date[n-1].Label; len(labels) > 0 {
			ov.LastDate = labels[0]
		}
	}
	for _, v := range d.Metadata.Variables {
		ov.Variables = append(ov.Variables, strings.ToUpper(v.Name))
	}
	ov.VariableCount = len(ov.Variables)
	return ov
}

// RegionListItem is one row of the region listing.
type RegionListItem struct {
	ID            int    `json:"id"`
	Label         string `json:"label"`
	ModelCount    int    `json:"modelCount"`
	VariableCount int    `json:"variableCount"`
}

// ListingMetadata carries dataset-wide totals for the region listing.
type ListingMetadata struct {
	TotalModels            int      `json:"totalModels"`
	TotalRegions           int      `json:"totalRegions"`
	AvailableVariables     []string `json:"availableVariables"`
	AverageModelsPerRegion int      `json:"averageModelsPerRegion"`
}

// RegionListing is the response body of the region listing endpoint.
type RegionListing struct {
	Regions  []RegionListItem `json:"regions"`
	Total    int              `json:"total"`
	Metadata ListingMetadata  `json:"metadata"`
}

// ListRegions describes every region of d with its model and variable
// counts. Totals come from the metadata dimensions, not from counting.
func ListRegions(d *Dataset) RegionListing {
	items := make([]RegionListItem, 0, len(d.Region))
	models := 0
	for i := range d.Region {
		r := &d.Region[i]
		items = append(items, RegionListItem{
			ID:            r.ID,
			Label:         r.Label,
			ModelCount:    len(r.Model),
			VariableCount: r.VariableCount(),
		})
		models += len(r.Model)
	}

	avg := 0
	if len(items) > 0 {
		avg = int(math.Round(float64(models) / float64(len(items))))
	}

	return RegionListing{
		Regions: items,
		Total:   len(items),
		Metadata: ListingMetadata{
			TotalModels:            d.Metadata.Dimensions.Model.Length,
			TotalRegions:           d.Metadata.Dimensions.Region.Length,
			AvailableVariables:     availableVariables(d.Metadata.Variables),
			AverageModelsPerRegion: avg,
		},
	}
}

// availableVariables returns the distinct declared variable names in
// first-seen order.
func availableVariables(defs []VariableDef) []string {
	seen := make(map[string]struct{}, len(defs))
	out := make([]string, 0, len(defs))
	for _, v := range defs {
		if _, ok := seen[v.Name]; ok {
			continue
		}
		seen[v.Name] = struct{}{}
		out = append(out, v.Name)
	}
	return out
}

// RegionRef identifies a region by id and label.
type RegionRef struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// RegionRefList is the short region directory.
type RegionRefList struct {
	Regions []RegionRef `json:"regions"`
	Total   int         `json:"total"`
}

// RegionRefs lists the id and label of every region.
func RegionRefs(d *Dataset) RegionRefList {
	refs := make([]RegionRef, 0, len(d.Region))
	for _, r := range d.Region {
		refs = append(refs, RegionRef{ID: r.ID, Label: r.Label})
	}
	return RegionRefList{Regions: refs, Total: len(refs)}
}
