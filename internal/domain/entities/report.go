package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ChartKind identifies the chart styles the report pipeline can render
type ChartKind string

const (
	ChartKindBar       ChartKind = "bar"
	ChartKindLine      ChartKind = "line"
	ChartKindHistogram ChartKind = "hist"
)

// ChartSpec describes one chart derived from a dataset column
type ChartSpec struct {
	// Column is the dataset column to aggregate
	Column string `yaml:"column"`

	// Kind selects the chart style (bar, line, hist)
	Kind ChartKind `yaml:"kind"`

	// Title is the chart heading; derived from the column name when empty
	Title string `yaml:"title"`

	// Top limits bar charts to the N most frequent values (0 = config default)
	Top int `yaml:"top"`

	// SortByLabel orders points by label instead of descending count,
	// for year-style axes
	SortByLabel bool `yaml:"sort_by_label"`
}

// Validate validates the chart spec
func (c *ChartSpec) Validate() error {
	if strings.TrimSpace(c.Column) == "" {
		return errors.New("chart column is required")
	}

	switch c.Kind {
	case ChartKindBar, ChartKindLine, ChartKindHistogram:
	case "":
		c.Kind = ChartKindBar
	default:
		return fmt.Errorf("unknown chart kind: %s", c.Kind)
	}

	if c.Top < 0 {
		return errors.New("top must be non-negative")
	}

	return nil
}

// ReportSpec is the caller-supplied description of an analysis report deck:
// which dataset to load, which charts to render, and optional markdown notes
// appended as bullet slides.
type ReportSpec struct {
	Title    string      `yaml:"title"`
	Subtitle string      `yaml:"subtitle"`
	Author   string      `yaml:"author"`
	Dataset  string      `yaml:"dataset"`
	Notes    string      `yaml:"notes"`
	Output   string      `yaml:"output"`
	Charts   []ChartSpec `yaml:"charts"`
}

// Validate validates the report spec and every chart in it
func (r *ReportSpec) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("report title is required")
	}

	if strings.TrimSpace(r.Dataset) == "" {
		return errors.New("report dataset path is required")
	}

	if len(r.Charts) == 0 {
		return errors.New("report must declare at least one chart")
	}

	for i := range r.Charts {
		if err := r.Charts[i].Validate(); err != nil {
			return fmt.Errorf("chart %d: %w", i+1, err)
		}
	}

	return nil
}
