package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionByID(t *testing.T) {
	d := sampleDataset()

	t.Run("unindexed", func(t *testing.T) {
		r, ok := d.RegionByID(9)
		require.True(t, ok)
		assert.Equal(t, "gulf", r.Label)

		_, ok = d.RegionByID(8)
		assert.False(t, ok)
	})

	t.Run("indexed", func(t *testing.T) {
		d.BuildIndex()
		r, ok := d.RegionByID(7)
		require.True(t, ok)
		assert.Equal(t, "north_west_shelf", r.Label)

		_, ok = d.RegionByID(-1)
		assert.False(t, ok)
	})

	t.Run("duplicate ids keep the first region", func(t *testing.T) {
		d := &Dataset{Region: []Region{{ID: 1, Label: "first"}, {ID: 1, Label: "second"}}}
		d.BuildIndex()
		r, ok := d.RegionByID(1)
		require.True(t, ok)
		assert.Equal(t, "first", r.Label)
	})
}

func TestModelLookup(t *testing.T) {
	region := sampleDataset().Region[0]

	m, ok := region.ModelByID(2)
	require.True(t, ok)
	assert.Equal(t, "ECMWF", m.Label)

	_, ok = region.ModelByID(3)
	assert.False(t, ok)

	m, ok = region.ModelByLabel("access-s")
	require.True(t, ok)
	assert.Equal(t, 1, m.ID)

	assert.Equal(t, 3, region.VariableCount())
}

func TestVariableByLabel_CaseFolded(t *testing.T) {
	for _, stored := range []string{"Bias", "BIAS", "bias"} {
		m := Model{Variable: []Variable{{Label: "RMSE"}, {Label: stored}}}

		v, ok := m.VariableByLabel("bias")
		require.True(t, ok, stored)
		assert.Equal(t, stored, v.Label)

		v, ok = m.VariableByLabel(VariableBias)
		require.True(t, ok, stored)
		assert.Equal(t, stored, v.Label)
	}

	_, ok := (&Model{}).VariableByLabel("RMSE")
	assert.False(t, ok)
}

func TestDateLabels(t *testing.T) {
	d := sampleDataset()

	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, d.DateLabels(1))
	assert.Nil(t, d.DateLabels(2))
	assert.Nil(t, d.DateLabels(-1))
	assert.Equal(t, []string{"Day 1", "Day 2"}, d.ForecastDayLabels())
}

func TestSameLabel(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Bias", "BIAS", true},
		{"rmse", "RMSE", true},
		{"Straße", "STRASSE", true},
		{"ACC", "ACCS", false},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.same, SameLabel(tt.a, tt.b))
			assert.Equal(t, tt.same, LabelKey(tt.a) == LabelKey(tt.b))
		})
	}
}
