package domain

func fp(v float64) *float64 { return &v }

// row builds a matrix row; a nil argument is an absent value.
func row(values ...*float64) []*float64 { return values }

func sampleDataset() *Dataset {
	return &Dataset{
		Metadata: Metadata{
			Dimensions: Dimensions{
				Region:      LabeledDimension{Length: 2, Labels: []string{"north_west_shelf", "gulf"}},
				Model:       LabeledDimension{Length: 3, Labels: []string{"ACCESS-S", "ECMWF", "GFS"}},
				ForecastDay: ForecastDayDimension{Length: 2, Label: []string{"Day 1", "Day 2"}},
				Date:        DateDimension{Format: "YYYY-MM-DD", Length: 3},
			},
			Variables: []VariableDef{
				{Name: "RMSE"},
				{Name: "Bias"},
				{Name: "RMSE"},
			},
		},
		Date: []DateTable{
			{ForecastDay: 0, Label: []string{"2024-01-01", "2024-01-02", "2024-01-03"}},
			{ForecastDay: 1, Label: []string{"2024-01-02", "2024-01-03", "2024-01-04"}},
		},
		Region: []Region{
			{
				ID:    7,
				Label: "north_west_shelf",
				Model: []Model{
					{ID: 1, Label: "ACCESS-S", Variable: []Variable{
						{Label: "RMSE", Value: Matrix{row(fp(1), fp(2), fp(3)), row(fp(2), fp(3), fp(4))}},
						{Label: "Bias", Value: Matrix{row(fp(-0.5), nil, fp(0.5)), row(fp(0), fp(0), fp(0))}},
					}},
					{ID: 2, Label: "ECMWF", Variable: []Variable{
						{Label: "rmse", Value: Matrix{row(fp(4), nil), row(fp(1), fp(1), fp(1))}},
					}},
				},
			},
			{
				ID:    9,
				Label: "gulf",
				Model: []Model{
					{ID: 1, Label: "ACCESS-S", Variable: []Variable{
						{Label: "RMSE", Value: Matrix{row(fp(1), fp(1), fp(1)), row(fp(1), fp(1), fp(1))}},
					}},
				},
			},
		},
	}
}
