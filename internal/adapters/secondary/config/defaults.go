package config

import (
	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// Default theme colors, 8-digit ARGB hex
const (
	defaultTitleColor      = "FF1F2937"
	defaultBodyColor       = "FF374151"
	defaultAccentColor     = "FF3B82F6"
	defaultBackgroundColor = "FFFFFFFF"
)

// GetDefaultConfig returns the built-in defaults. Environment overrides are
// applied later by ConfigMerger.ApplyEnvVars, so they never get baked into
// the global config file created on first run.
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Output: entities.OutputConfig{
			Directory:       ".",
			Overwrite:       false,
			TimestampSuffix: true,
		},
		Theme: entities.ThemeConfig{
			TitleColor:      defaultTitleColor,
			BodyColor:       defaultBodyColor,
			AccentColor:     defaultAccentColor,
			BackgroundColor: defaultBackgroundColor,
			FontFamily:      "Calibri",
		},
		Charts: entities.ChartsConfig{
			Width:  1000,
			Height: 600,
			TopN:   10,
		},
		Logging: entities.LoggingConfig{
			Level:   "info",
			Verbose: false,
		},
	}
}
