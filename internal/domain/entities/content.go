package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ValueKind distinguishes the two kinds of content a placeholder can receive
type ValueKind string

const (
	ValueText  ValueKind = "text"
	ValueImage ValueKind = "image"
)

// ContentEntry is a single substitution: a slide index, a placeholder
// identifier (shape name, placeholder type, or numeric placeholder index),
// and either a literal text value or a path to an image file.
type ContentEntry struct {
	Slide       int       `toml:"slide" json:"slide"`
	Placeholder string    `toml:"placeholder" json:"placeholder"`
	Text        string    `toml:"text" json:"text,omitempty"`
	Image       string    `toml:"image" json:"image,omitempty"`
	kind        ValueKind // resolved during validation
}

// Kind returns the value kind of the entry. Valid only after Validate.
func (e *ContentEntry) Kind() ValueKind {
	return e.kind
}

// Value returns the raw value of the entry: the literal text or the image path.
func (e *ContentEntry) Value() string {
	if e.kind == ValueImage {
		return e.Image
	}
	return e.Text
}

// Validate ensures the entry targets a plausible placeholder and carries
// exactly one value kind
func (e *ContentEntry) Validate() error {
	if e.Slide < 0 {
		return errors.New("slide index must be non-negative")
	}

	if strings.TrimSpace(e.Placeholder) == "" {
		return errors.New("placeholder identifier is required")
	}

	hasText := e.Text != ""
	hasImage := e.Image != ""

	switch {
	case hasText && hasImage:
		return errors.New("entry cannot carry both a text and an image value")
	case hasImage:
		e.kind = ValueImage
	case hasText:
		e.kind = ValueText
	default:
		return errors.New("entry must carry a text or an image value")
	}

	return nil
}

// ContentMap is the ordered sequence of substitutions to apply to a template.
// Entries are applied strictly in order; the first failing entry aborts the
// whole build.
type ContentMap struct {
	Template string         `toml:"template" json:"template"`
	Output   string         `toml:"output" json:"output,omitempty"`
	Entries  []ContentEntry `toml:"content" json:"content"`
}

// Validate validates the map and every entry in it
func (m *ContentMap) Validate() error {
	if strings.TrimSpace(m.Template) == "" {
		return errors.New("template path is required")
	}

	if len(m.Entries) == 0 {
		return errors.New("content map must have at least one entry")
	}

	for i := range m.Entries {
		if err := m.Entries[i].Validate(); err != nil {
			return fmt.Errorf("content entry %d: %w", i+1, err)
		}
	}

	return nil
}

// EntryCount returns the number of substitutions in the map
func (m *ContentMap) EntryCount() int {
	return len(m.Entries)
}
