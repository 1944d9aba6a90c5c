package manifest

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// TOMLLoader loads build manifests from TOML files. A manifest names the
// template, optionally the output path, and the ordered list of [[content]]
// substitutions.
type TOMLLoader struct{}

// NewTOMLLoader creates a new manifest loader
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{}
}

// Load reads and validates the manifest at path. TOML array tables preserve
// document order, so entries apply in the order they are written.
func (l *TOMLLoader) Load(ctx context.Context, path string) (*entities.ContentMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - manifest path is the caller's own input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.NewNotFoundError(path, err)
		}
		return nil, entities.NewIOError(path, err)
	}

	var m entities.ContentMap
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, entities.NewFormatError(path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, entities.NewFormatError(path, err)
	}

	return &m, nil
}

// Ensure TOMLLoader implements ports.ManifestLoader
var _ ports.ManifestLoader = (*TOMLLoader)(nil)
