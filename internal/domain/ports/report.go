package ports

import (
	"context"

	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// DatasetLoader loads and cleans tabular data files
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*entities.Dataset, error)
}

// ChartRenderer renders an aggregated series to an image file
type ChartRenderer interface {
	// RenderSeries draws the series as the given chart kind and writes a PNG
	// to outputPath
	RenderSeries(ctx context.Context, series *entities.Series, kind entities.ChartKind, title string, outputPath string) error

	// RenderHistogram draws a value distribution and writes a PNG to outputPath
	RenderHistogram(ctx context.Context, values []float64, title string, outputPath string) error
}

// NotesParser turns a markdown document into outline bullets
type NotesParser interface {
	Parse(ctx context.Context, content []byte) ([]entities.Bullet, error)
}
