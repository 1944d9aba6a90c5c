package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// MockDatasetLoader is a mock implementation of ports.DatasetLoader
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(ctx context.Context, path string) (*entities.Dataset, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Dataset), args.Error(1)
}

// MockChartRenderer is a mock implementation of ports.ChartRenderer
type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) RenderSeries(ctx context.Context, series *entities.Series, kind entities.ChartKind, title string, outputPath string) error {
	args := m.Called(ctx, series, kind, title, outputPath)
	return args.Error(0)
}

func (m *MockChartRenderer) RenderHistogram(ctx context.Context, values []float64, title string, outputPath string) error {
	args := m.Called(ctx, values, title, outputPath)
	return args.Error(0)
}

// MockNotesParser is a mock implementation of ports.NotesParser
type MockNotesParser struct {
	mock.Mock
}

func (m *MockNotesParser) Parse(ctx context.Context, content []byte) ([]entities.Bullet, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Bullet), args.Error(1)
}

// MockDeckComposer is a mock implementation of ports.DeckComposer
type MockDeckComposer struct {
	mock.Mock
}

func (m *MockDeckComposer) Compose(ctx context.Context, outline *entities.DeckOutline) ([]byte, error) {
	args := m.Called(ctx, outline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func catalogDataset() *entities.Dataset {
	return entities.NewDataset(
		[]string{"type", "year_added", "duration_min"},
		[][]string{
			{"Movie", "2021", "90"},
			{"Movie", "2020", "120"},
			{"TV Show", "2021", ""},
			{"Movie", "2021", "100"},
		},
	)
}

func newReportService(datasets *MockDatasetLoader, charts *MockChartRenderer, notes *MockNotesParser, composer *MockDeckComposer) *ReportService {
	return NewReportService(datasets, charts, notes, composer, entities.ChartsConfig{})
}

func TestReportService_Generate(t *testing.T) {
	t.Run("builds title, chart and notes slides", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		charts := new(MockChartRenderer)
		notes := new(MockNotesParser)
		composer := new(MockDeckComposer)
		svc := newReportService(datasets, charts, notes, composer)

		notesPath := filepath.Join(t.TempDir(), "notes.md")
		require.NoError(t, os.WriteFile(notesPath, []byte("# Key Findings\n- movies lead\n"), 0o644))

		output := filepath.Join(t.TempDir(), "report.pptx")
		spec := &entities.ReportSpec{
			Title:    "Catalog Analysis",
			Subtitle: "Content trends",
			Author:   "Data Team",
			Dataset:  "catalog.csv",
			Notes:    notesPath,
			Output:   output,
			Charts: []entities.ChartSpec{
				{Column: "type", Kind: entities.ChartKindBar},
			},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)
		charts.On("RenderSeries", mock.Anything, mock.Anything, entities.ChartKindBar, "Type", mock.Anything).Return(nil)
		notes.On("Parse", mock.Anything, mock.Anything).Return([]entities.Bullet{
			{Text: "Key Findings", Level: 0, Bold: true},
			{Text: "movies lead", Level: 1},
		}, nil)

		var composed *entities.DeckOutline
		composer.On("Compose", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				composed = args.Get(1).(*entities.DeckOutline)
			}).
			Return([]byte("report-deck"), nil)

		result, err := svc.Generate(context.Background(), spec, "")
		require.NoError(t, err)

		assert.Equal(t, output, result.OutputPath)
		assert.Equal(t, 3, result.Slides)
		assert.Equal(t, 1, result.Charts)
		assert.Equal(t, 4, result.Rows)

		require.NotNil(t, composed)
		require.Len(t, composed.Slides, 3)
		assert.Equal(t, entities.SlideKindTitle, composed.Slides[0].Kind)
		assert.Equal(t, "Catalog Analysis", composed.Slides[0].Title)
		assert.Equal(t, entities.SlideKindImage, composed.Slides[1].Kind)
		assert.Equal(t, "Type", composed.Slides[1].Title)
		assert.Equal(t, entities.SlideKindBullets, composed.Slides[2].Kind)
		assert.Equal(t, "Key Findings", composed.Slides[2].Title)

		written, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, []byte("report-deck"), written)
	})

	t.Run("bar charts aggregate descending and truncate to top n", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		charts := new(MockChartRenderer)
		composer := new(MockDeckComposer)
		svc := newReportService(datasets, charts, new(MockNotesParser), composer)

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "catalog.csv",
			Output:  filepath.Join(t.TempDir(), "out.pptx"),
			Charts:  []entities.ChartSpec{{Column: "type", Kind: entities.ChartKindBar, Top: 1}},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)
		charts.On("RenderSeries", mock.Anything,
			mock.MatchedBy(func(s *entities.Series) bool {
				return len(s.Points) == 1 && s.Points[0].Label == "Movie" && s.Points[0].Value == 3
			}),
			entities.ChartKindBar, "Type", mock.Anything).Return(nil)
		composer.On("Compose", mock.Anything, mock.Anything).Return([]byte("x"), nil)

		_, err := svc.Generate(context.Background(), spec, "")
		require.NoError(t, err)
		charts.AssertExpectations(t)
	})

	t.Run("line charts aggregate by ascending label", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		charts := new(MockChartRenderer)
		composer := new(MockDeckComposer)
		svc := newReportService(datasets, charts, new(MockNotesParser), composer)

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "catalog.csv",
			Output:  filepath.Join(t.TempDir(), "out.pptx"),
			Charts:  []entities.ChartSpec{{Column: "year_added", Kind: entities.ChartKindLine}},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)
		charts.On("RenderSeries", mock.Anything,
			mock.MatchedBy(func(s *entities.Series) bool {
				return len(s.Points) == 2 && s.Points[0].Label == "2020" && s.Points[1].Label == "2021"
			}),
			entities.ChartKindLine, "Year Added", mock.Anything).Return(nil)
		composer.On("Compose", mock.Anything, mock.Anything).Return([]byte("x"), nil)

		_, err := svc.Generate(context.Background(), spec, "")
		require.NoError(t, err)
		charts.AssertExpectations(t)
	})

	t.Run("histogram charts pass numeric values", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		charts := new(MockChartRenderer)
		composer := new(MockDeckComposer)
		svc := newReportService(datasets, charts, new(MockNotesParser), composer)

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "catalog.csv",
			Output:  filepath.Join(t.TempDir(), "out.pptx"),
			Charts:  []entities.ChartSpec{{Column: "duration_min", Kind: entities.ChartKindHistogram, Title: "Durations"}},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)
		charts.On("RenderHistogram", mock.Anything, []float64{90, 120, 100}, "Durations", mock.Anything).Return(nil)
		composer.On("Compose", mock.Anything, mock.Anything).Return([]byte("x"), nil)

		_, err := svc.Generate(context.Background(), spec, "")
		require.NoError(t, err)
		charts.AssertExpectations(t)
	})

	t.Run("propagates dataset errors", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		svc := newReportService(datasets, new(MockChartRenderer), new(MockNotesParser), new(MockDeckComposer))

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "missing.csv",
			Output:  "out.pptx",
			Charts:  []entities.ChartSpec{{Column: "type"}},
		}

		datasets.On("Load", mock.Anything, "missing.csv").
			Return(nil, entities.NewNotFoundError("missing.csv", os.ErrNotExist))

		_, err := svc.Generate(context.Background(), spec, "")
		require.Error(t, err)
		assert.True(t, entities.IsKind(err, entities.ErrorKindNotFound))
	})

	t.Run("fails when a chart references an unknown column", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		svc := newReportService(datasets, new(MockChartRenderer), new(MockNotesParser), new(MockDeckComposer))

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "catalog.csv",
			Output:  filepath.Join(t.TempDir(), "out.pptx"),
			Charts:  []entities.ChartSpec{{Column: "nope"}},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)

		_, err := svc.Generate(context.Background(), spec, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no column")
	})

	t.Run("rejects invalid specs before loading anything", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		svc := newReportService(datasets, new(MockChartRenderer), new(MockNotesParser), new(MockDeckComposer))

		_, err := svc.Generate(context.Background(), &entities.ReportSpec{}, "")
		require.Error(t, err)
		datasets.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})

	t.Run("propagates composer errors", func(t *testing.T) {
		datasets := new(MockDatasetLoader)
		charts := new(MockChartRenderer)
		composer := new(MockDeckComposer)
		svc := newReportService(datasets, charts, new(MockNotesParser), composer)

		spec := &entities.ReportSpec{
			Title:   "Report",
			Dataset: "catalog.csv",
			Output:  filepath.Join(t.TempDir(), "out.pptx"),
			Charts:  []entities.ChartSpec{{Column: "type", Kind: entities.ChartKindBar}},
		}

		datasets.On("Load", mock.Anything, "catalog.csv").Return(catalogDataset(), nil)
		charts.On("RenderSeries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		composer.On("Compose", mock.Anything, mock.Anything).Return(nil, errors.New("compose failed"))

		_, err := svc.Generate(context.Background(), spec, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compose failed")
	})
}
