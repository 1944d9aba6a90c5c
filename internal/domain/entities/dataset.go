package entities

import (
	"fmt"
	"sort"
	"strconv"
)

// Dataset is a cleaned, columnar view of a loaded CSV file
type Dataset struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewDataset builds a dataset and its column index
func NewDataset(columns []string, rows [][]string) *Dataset {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Dataset{Columns: columns, Rows: rows, index: index}
}

// HasColumn reports whether the dataset has the named column
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns all values of the named column in row order
func (d *Dataset) Column(name string) ([]string, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", name)
	}

	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		values = append(values, row[i])
	}
	return values, nil
}

// RowCount returns the number of data rows
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// SeriesPoint is one labeled value of an aggregated series
type SeriesPoint struct {
	Label string
	Value float64
}

// Series is an ordered sequence of labeled values, the unit of chart input
type Series struct {
	Name   string
	Points []SeriesPoint
}

// ValueCounts aggregates the named column into per-value occurrence counts,
// ordered by descending count (ties broken by label for determinism).
func (d *Dataset) ValueCounts(column string) (*Series, error) {
	values, err := d.Column(column)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]float64)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}

	points := make([]SeriesPoint, 0, len(counts))
	for label, count := range counts {
		points = append(points, SeriesPoint{Label: label, Value: count})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})

	return &Series{Name: column, Points: points}, nil
}

// CountsByLabel aggregates like ValueCounts but orders points by ascending
// label, treating numeric labels numerically. Used for year-style axes.
func (d *Dataset) CountsByLabel(column string) (*Series, error) {
	series, err := d.ValueCounts(column)
	if err != nil {
		return nil, err
	}

	sort.Slice(series.Points, func(i, j int) bool {
		a, errA := strconv.ParseFloat(series.Points[i].Label, 64)
		b, errB := strconv.ParseFloat(series.Points[j].Label, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return series.Points[i].Label < series.Points[j].Label
	})

	return series, nil
}

// NumericValues returns the parseable numeric values of the named column,
// skipping blanks and non-numeric entries.
func (d *Dataset) NumericValues(column string) ([]float64, error) {
	values, err := d.Column(column)
	if err != nil {
		return nil, err
	}

	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// TopN truncates the series to its first n points. n <= 0 leaves it unchanged.
func (s *Series) TopN(n int) *Series {
	if n <= 0 || n >= len(s.Points) {
		return s
	}
	return &Series{Name: s.Name, Points: s.Points[:n]}
}

// MaxValue returns the largest point value, or zero for an empty series
func (s *Series) MaxValue() float64 {
	max := 0.0
	for _, p := range s.Points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}
