package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SlideKind identifies the layout of an outline slide
type SlideKind string

const (
	SlideKindTitle   SlideKind = "title"
	SlideKindBullets SlideKind = "bullets"
	SlideKindImage   SlideKind = "image"
)

// Bullet is a single line of a bullets slide. Level 0 is a section heading,
// higher levels render as indented list items.
type Bullet struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	Bold  bool   `json:"bold,omitempty"`
}

// OutlineSlide describes one slide of a deck composed from scratch
type OutlineSlide struct {
	Kind      SlideKind `json:"kind"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	Bullets   []Bullet  `json:"bullets,omitempty"`
}

// Validate ensures the slide carries what its kind requires
func (s *OutlineSlide) Validate() error {
	switch s.Kind {
	case SlideKindTitle:
		if strings.TrimSpace(s.Title) == "" {
			return errors.New("title slide requires a title")
		}
	case SlideKindImage:
		if strings.TrimSpace(s.ImagePath) == "" {
			return errors.New("image slide requires an image path")
		}
	case SlideKindBullets:
		if len(s.Bullets) == 0 {
			return errors.New("bullets slide requires at least one bullet")
		}
	default:
		return fmt.Errorf("unknown slide kind: %s", s.Kind)
	}
	return nil
}

// DeckOutline is the full description of a deck composed from scratch,
// consumed by the deck composer.
type DeckOutline struct {
	// ID is a unique identifier for the composed deck
	ID string `json:"id,omitempty"`

	// Title is the deck title, also written to document properties
	Title string `json:"title"`

	// Author is written to the document creator property
	Author string `json:"author,omitempty"`

	// Date is when the deck was generated
	Date time.Time `json:"date"`

	// Slides contains all slides in order
	Slides []OutlineSlide `json:"slides"`
}

// Validate ensures the outline has valid required fields
func (o *DeckOutline) Validate() error {
	if o.Title == "" {
		return errors.New("deck title is required")
	}

	if len(o.Slides) == 0 {
		return errors.New("deck must have at least one slide")
	}

	for i := range o.Slides {
		if err := o.Slides[i].Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
	}

	return nil
}

// SlideCount returns the total number of slides
func (o *DeckOutline) SlideCount() int {
	return len(o.Slides)
}
