package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *Dataset {
	return NewDataset(
		[]string{"genre", "year", "duration"},
		[][]string{
			{"Drama", "2021", "90"},
			{"Comedy", "2020", "100"},
			{"Drama", "2021", ""},
			{"Drama", "2019", "abc"},
			{"Action", "2020", "110"},
		},
	)
}

func TestDataset_Column(t *testing.T) {
	ds := sampleDataset()

	t.Run("returns values in row order", func(t *testing.T) {
		values, err := ds.Column("genre")
		require.NoError(t, err)
		assert.Equal(t, []string{"Drama", "Comedy", "Drama", "Drama", "Action"}, values)
	})

	t.Run("unknown column errors", func(t *testing.T) {
		_, err := ds.Column("missing")
		assert.Error(t, err)
	})

	t.Run("HasColumn", func(t *testing.T) {
		assert.True(t, ds.HasColumn("year"))
		assert.False(t, ds.HasColumn("rating"))
	})
}

func TestDataset_ValueCounts(t *testing.T) {
	ds := sampleDataset()

	t.Run("orders by descending count", func(t *testing.T) {
		series, err := ds.ValueCounts("genre")
		require.NoError(t, err)

		require.Len(t, series.Points, 3)
		assert.Equal(t, SeriesPoint{Label: "Drama", Value: 3}, series.Points[0])
		// ties break alphabetically for deterministic output
		assert.Equal(t, "Action", series.Points[1].Label)
		assert.Equal(t, "Comedy", series.Points[2].Label)
	})

	t.Run("skips blank values", func(t *testing.T) {
		series, err := ds.ValueCounts("duration")
		require.NoError(t, err)

		for _, p := range series.Points {
			assert.NotEmpty(t, p.Label)
		}
	})
}

func TestDataset_CountsByLabel(t *testing.T) {
	ds := sampleDataset()

	series, err := ds.CountsByLabel("year")
	require.NoError(t, err)

	require.Len(t, series.Points, 3)
	assert.Equal(t, "2019", series.Points[0].Label)
	assert.Equal(t, "2020", series.Points[1].Label)
	assert.Equal(t, "2021", series.Points[2].Label)
	assert.Equal(t, 2.0, series.Points[2].Value)
}

func TestDataset_NumericValues(t *testing.T) {
	ds := sampleDataset()

	values, err := ds.NumericValues("duration")
	require.NoError(t, err)

	// blanks and non-numeric entries are skipped
	assert.Equal(t, []float64{90, 100, 110}, values)
}

func TestSeries_TopN(t *testing.T) {
	series := &Series{Name: "genre", Points: []SeriesPoint{
		{Label: "a", Value: 3}, {Label: "b", Value: 2}, {Label: "c", Value: 1},
	}}

	assert.Len(t, series.TopN(2).Points, 2)
	assert.Len(t, series.TopN(0).Points, 3)
	assert.Len(t, series.TopN(10).Points, 3)
}

func TestSeries_MaxValue(t *testing.T) {
	series := &Series{Points: []SeriesPoint{{Value: 2}, {Value: 7}, {Value: 4}}}
	assert.Equal(t, 7.0, series.MaxValue())

	assert.Equal(t, 0.0, (&Series{}).MaxValue())
}
