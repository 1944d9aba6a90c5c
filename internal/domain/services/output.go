package services

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// writeDeckFile writes a finished deck to path atomically, so a failed write
// never leaves a truncated document behind.
func writeDeckFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return entities.NewIOError(path, err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return entities.NewIOError(path, err)
	}

	return nil
}
