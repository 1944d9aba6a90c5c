package reportspec

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// YAMLLoader loads report specifications from YAML files
type YAMLLoader struct{}

// NewYAMLLoader creates a new report spec loader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load reads and validates the report spec at path
func (l *YAMLLoader) Load(ctx context.Context, path string) (*entities.ReportSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - spec path is the caller's own input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.NewNotFoundError(path, err)
		}
		return nil, entities.NewIOError(path, err)
	}

	var spec entities.ReportSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, entities.NewFormatError(path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, entities.NewFormatError(path, err)
	}

	return &spec, nil
}

// Ensure YAMLLoader implements ports.ReportSpecLoader
var _ ports.ReportSpecLoader = (*YAMLLoader)(nil)
