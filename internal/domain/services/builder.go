package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	// registered so image.DecodeConfig can sniff the formats picture
	// placeholders accept
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// BuildResult summarizes a completed template build
type BuildResult struct {
	ID         string        `json:"id"`
	OutputPath string        `json:"output_path"`
	Slides     int           `json:"slides"`
	Entries    int           `json:"entries"`
	Duration   time.Duration `json:"duration"`
}

// BuilderService implements the template build pipeline: load a template,
// apply an ordered content map, write the populated deck.
type BuilderService struct {
	store     ports.TemplateStore
	manifests ports.ManifestLoader
}

// NewBuilderService creates a new builder service instance
func NewBuilderService(store ports.TemplateStore, manifests ports.ManifestLoader) *BuilderService {
	return &BuilderService{
		store:     store,
		manifests: manifests,
	}
}

// BuildOptions adjusts how Build resolves the manifest it loads
type BuildOptions struct {
	// OutputPath overrides the manifest's own output when non-empty
	OutputPath string
	// DefaultOutput names the output from the manifest's template path when
	// neither OutputPath nor the manifest provide one
	DefaultOutput func(templatePath string) string
	// Overwrite allows replacing an existing output file
	Overwrite bool
}

// Build loads the manifest at manifestPath and runs the build it describes
func (s *BuilderService) Build(ctx context.Context, manifestPath string, opts BuildOptions) (*BuildResult, error) {
	m, err := s.manifests.Load(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.OutputPath != "":
		m.Output = opts.OutputPath
	case m.Output == "" && opts.DefaultOutput != nil:
		m.Output = opts.DefaultOutput(m.Template)
	}

	if !opts.Overwrite && m.Output != "" {
		if _, err := os.Stat(m.Output); err == nil {
			return nil, fmt.Errorf("output file %s already exists (use --overwrite to replace it)", m.Output)
		}
	}

	return s.BuildFromMap(ctx, m)
}

// BuildFromMap applies the content map to its template and writes the result
// to the map's output path. Entries apply strictly in order; the first failing
// entry aborts the build and nothing is written.
func (s *BuilderService) BuildFromMap(ctx context.Context, m *entities.ContentMap) (*BuildResult, error) {
	start := time.Now()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content map: %w", err)
	}

	if m.Output == "" {
		return nil, fmt.Errorf("no output path for build of %s", m.Template)
	}

	doc, err := s.store.Load(ctx, m.Template)
	if err != nil {
		return nil, err
	}

	for i := range m.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.applyEntry(doc, &m.Entries[i]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		return nil, entities.NewIOError(m.Output, err)
	}

	if err := writeDeckFile(m.Output, buf.Bytes()); err != nil {
		return nil, err
	}

	return &BuildResult{
		ID:         uuid.New().String(),
		OutputPath: m.Output,
		Slides:     doc.SlideCount(),
		Entries:    m.EntryCount(),
		Duration:   time.Since(start),
	}, nil
}

// applyEntry applies one substitution to the document
func (s *BuilderService) applyEntry(doc ports.Document, entry *entities.ContentEntry) error {
	if entry.Kind() == entities.ValueImage {
		data, format, err := s.loadImageAsset(entry)
		if err != nil {
			return err
		}
		return doc.SetPicture(entry.Slide, entry.Placeholder, data, format)
	}

	return doc.SetText(entry.Slide, entry.Placeholder, entry.Text)
}

// loadImageAsset reads the entry's image file and sniffs its format
func (s *BuilderService) loadImageAsset(entry *entities.ContentEntry) ([]byte, string, error) {
	data, err := os.ReadFile(entry.Image) // #nosec G304 - asset path comes from the caller's manifest
	if err != nil {
		return nil, "", entities.NewAssetNotFoundError(entry.Image, err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", entities.NewTypeMismatchError(entry.Slide, entry.Placeholder,
			fmt.Sprintf("asset %s is not a supported image", entry.Image))
	}

	return data, format, nil
}
