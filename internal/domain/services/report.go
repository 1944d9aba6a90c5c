package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// ReportResult summarizes a completed report generation
type ReportResult struct {
	ID         string        `json:"id"`
	OutputPath string        `json:"output_path"`
	Slides     int           `json:"slides"`
	Charts     int           `json:"charts"`
	Rows       int           `json:"rows"`
	Duration   time.Duration `json:"duration"`
}

// ReportService implements the analysis report pipeline: load a dataset,
// render its charts, and compose the resulting deck from scratch.
type ReportService struct {
	datasets ports.DatasetLoader
	charts   ports.ChartRenderer
	notes    ports.NotesParser
	composer ports.DeckComposer
	config   entities.ChartsConfig

	titler cases.Caser
}

// NewReportService creates a new report service instance
func NewReportService(
	datasets ports.DatasetLoader,
	charts ports.ChartRenderer,
	notes ports.NotesParser,
	composer ports.DeckComposer,
	config entities.ChartsConfig,
) *ReportService {
	return &ReportService{
		datasets: datasets,
		charts:   charts,
		notes:    notes,
		composer: composer,
		config:   config,
		titler:   cases.Title(language.English),
	}
}

// Generate runs the full pipeline for the given spec and writes the deck to
// the spec's output path. outputPath overrides it when non-empty.
func (s *ReportService) Generate(ctx context.Context, spec *entities.ReportSpec, outputPath string) (*ReportResult, error) {
	start := time.Now()

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report spec: %w", err)
	}

	if outputPath == "" {
		outputPath = spec.Output
	}
	if outputPath == "" {
		return nil, fmt.Errorf("no output path for report %q", spec.Title)
	}

	dataset, err := s.datasets.Load(ctx, spec.Dataset)
	if err != nil {
		return nil, err
	}

	chartDir, err := os.MkdirTemp("", "deckgen-charts-")
	if err != nil {
		return nil, entities.NewIOError(outputPath, err)
	}
	defer func() { _ = os.RemoveAll(chartDir) }()

	outline := &entities.DeckOutline{
		ID:     uuid.New().String(),
		Title:  spec.Title,
		Author: spec.Author,
		Date:   time.Now(),
		Slides: []entities.OutlineSlide{{
			Kind:     entities.SlideKindTitle,
			Title:    spec.Title,
			Subtitle: spec.Subtitle,
		}},
	}

	for i := range spec.Charts {
		slide, err := s.renderChart(ctx, dataset, &spec.Charts[i], chartDir, i)
		if err != nil {
			return nil, err
		}
		outline.Slides = append(outline.Slides, *slide)
	}

	if spec.Notes != "" {
		slides, err := s.notesSlides(ctx, spec.Notes)
		if err != nil {
			return nil, err
		}
		outline.Slides = append(outline.Slides, slides...)
	}

	deck, err := s.composer.Compose(ctx, outline)
	if err != nil {
		return nil, err
	}

	if err := writeDeckFile(outputPath, deck); err != nil {
		return nil, err
	}

	return &ReportResult{
		ID:         outline.ID,
		OutputPath: outputPath,
		Slides:     outline.SlideCount(),
		Charts:     len(spec.Charts),
		Rows:       dataset.RowCount(),
		Duration:   time.Since(start),
	}, nil
}

// renderChart aggregates one chart spec and renders it to a PNG in chartDir,
// returning the image slide that presents it
func (s *ReportService) renderChart(ctx context.Context, dataset *entities.Dataset, chart *entities.ChartSpec, chartDir string, index int) (*entities.OutlineSlide, error) {
	title := chart.Title
	if title == "" {
		title = s.columnTitle(chart.Column)
	}

	imagePath := filepath.Join(chartDir, fmt.Sprintf("chart_%02d_%s.png", index+1, chart.Column))

	switch chart.Kind {
	case entities.ChartKindHistogram:
		values, err := dataset.NumericValues(chart.Column)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", title, err)
		}
		if err := s.charts.RenderHistogram(ctx, values, title, imagePath); err != nil {
			return nil, fmt.Errorf("rendering chart %q: %w", title, err)
		}

	default:
		series, err := s.aggregate(dataset, chart)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", title, err)
		}
		if err := s.charts.RenderSeries(ctx, series, chart.Kind, title, imagePath); err != nil {
			return nil, fmt.Errorf("rendering chart %q: %w", title, err)
		}
	}

	return &entities.OutlineSlide{
		Kind:      entities.SlideKindImage,
		Title:     title,
		ImagePath: imagePath,
	}, nil
}

// aggregate turns a chart spec into the ordered series it plots
func (s *ReportService) aggregate(dataset *entities.Dataset, chart *entities.ChartSpec) (*entities.Series, error) {
	if chart.SortByLabel || chart.Kind == entities.ChartKindLine {
		return dataset.CountsByLabel(chart.Column)
	}

	series, err := dataset.ValueCounts(chart.Column)
	if err != nil {
		return nil, err
	}

	top := chart.Top
	if top == 0 {
		top = s.config.GetTopN()
	}
	return series.TopN(top), nil
}

// notesSlides parses the markdown notes file into bullets slides. Each
// top-level heading starts a new slide titled after it.
func (s *ReportService) notesSlides(ctx context.Context, path string) ([]entities.OutlineSlide, error) {
	content, err := os.ReadFile(path) // #nosec G304 - notes path comes from the caller's spec
	if err != nil {
		return nil, entities.NewNotFoundError(path, err)
	}

	bullets, err := s.notes.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parsing notes %s: %w", path, err)
	}

	var slides []entities.OutlineSlide
	current := entities.OutlineSlide{Kind: entities.SlideKindBullets, Title: "Notes"}

	flush := func() {
		if len(current.Bullets) > 0 {
			slides = append(slides, current)
		}
	}

	for _, b := range bullets {
		if b.Level == 0 {
			flush()
			current = entities.OutlineSlide{Kind: entities.SlideKindBullets, Title: b.Text}
			continue
		}
		current.Bullets = append(current.Bullets, b)
	}
	flush()

	return slides, nil
}

// columnTitle turns a snake_case column name into a chart heading
func (s *ReportService) columnTitle(column string) string {
	return s.titler.String(strings.ReplaceAll(column, "_", " "))
}
