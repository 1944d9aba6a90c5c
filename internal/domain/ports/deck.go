package ports

import (
	"context"
	"io"

	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// PlaceholderKind distinguishes text placeholders from picture frames
type PlaceholderKind string

const (
	PlaceholderText    PlaceholderKind = "text"
	PlaceholderPicture PlaceholderKind = "picture"
)

// Placeholder describes one substitutable region discovered on a slide
type Placeholder struct {
	// Name is the shape name authored in the template (e.g. "Title 1")
	Name string

	// Type is the placeholder type attribute (e.g. "title", "body", "pic")
	Type string

	// Index is the placeholder index attribute, -1 when absent
	Index int

	// Kind reports whether the placeholder receives text or a picture
	Kind PlaceholderKind
}

// Document is an in-memory mutable copy of a loaded template. It is owned
// exclusively by the single build that loaded it; no concurrent access.
type Document interface {
	// SlideCount returns the number of slides in the document
	SlideCount() int

	// Placeholders enumerates the placeholders of the given slide
	Placeholders(slide int) ([]Placeholder, error)

	// SetText overwrites the target text placeholder with the literal string
	SetText(slide int, placeholder string, text string) error

	// SetPicture swaps the target picture frame's image for the given bytes.
	// format is the sniffed image format name ("png", "jpeg", "gif").
	SetPicture(slide int, placeholder string, data []byte, format string) error

	// WriteTo serializes the document. Identical documents serialize to
	// identical bytes.
	WriteTo(w io.Writer) error
}

// TemplateStore opens template documents from the filesystem
type TemplateStore interface {
	// Load opens the template at path and returns its mutable in-memory copy
	Load(ctx context.Context, path string) (Document, error)
}

// DeckComposer builds presentation documents from scratch, without a template
type DeckComposer interface {
	// Compose renders the outline into a complete presentation document
	Compose(ctx context.Context, outline *entities.DeckOutline) ([]byte, error)
}
