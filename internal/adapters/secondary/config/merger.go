package config

import (
	"os"
	"strconv"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	// Start with first config as base
	result := deepCopy(configs[0])

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if dir, ok := flags["output-dir"].(string); ok && dir != "" {
		result.Output.Directory = dir
	}

	if overwrite, ok := flags["overwrite"].(bool); ok {
		result.Output.Overwrite = overwrite
	}

	if topN, ok := flags["top-n"].(int); ok && topN > 0 {
		result.Charts.TopN = topN
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies DECKGEN_* environment overrides to a configuration.
// They sit between config files and CLI flags in precedence; malformed
// numeric or boolean values are ignored.
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if dir := os.Getenv("DECKGEN_OUTPUT_DIR"); dir != "" {
		result.Output.Directory = dir
	}
	if v := os.Getenv("DECKGEN_OVERWRITE"); v != "" {
		if overwrite, err := strconv.ParseBool(v); err == nil {
			result.Output.Overwrite = overwrite
		}
	}
	if v := os.Getenv("DECKGEN_TIMESTAMP_SUFFIX"); v != "" {
		if suffix, err := strconv.ParseBool(v); err == nil {
			result.Output.TimestampSuffix = suffix
		}
	}

	if color := os.Getenv("DECKGEN_TITLE_COLOR"); color != "" {
		result.Theme.TitleColor = color
	}
	if color := os.Getenv("DECKGEN_BODY_COLOR"); color != "" {
		result.Theme.BodyColor = color
	}
	if color := os.Getenv("DECKGEN_ACCENT_COLOR"); color != "" {
		result.Theme.AccentColor = color
	}
	if color := os.Getenv("DECKGEN_BACKGROUND_COLOR"); color != "" {
		result.Theme.BackgroundColor = color
	}
	if family := os.Getenv("DECKGEN_FONT_FAMILY"); family != "" {
		result.Theme.FontFamily = family
	}

	if v := os.Getenv("DECKGEN_CHART_WIDTH"); v != "" {
		if width, err := strconv.Atoi(v); err == nil && width > 0 {
			result.Charts.Width = width
		}
	}
	if v := os.Getenv("DECKGEN_CHART_HEIGHT"); v != "" {
		if height, err := strconv.Atoi(v); err == nil && height > 0 {
			result.Charts.Height = height
		}
	}
	if v := os.Getenv("DECKGEN_CHART_TOP_N"); v != "" {
		if topN, err := strconv.Atoi(v); err == nil && topN > 0 {
			result.Charts.TopN = topN
		}
	}

	if level := os.Getenv("DECKGEN_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}
	if v := os.Getenv("DECKGEN_LOG_VERBOSE"); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			result.Logging.Verbose = verbose
		}
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Output config
	if source.Output.Directory != "" {
		target.Output.Directory = source.Output.Directory
	}
	// Boolean fields cannot distinguish false from unset in TOML; the later
	// config always wins
	target.Output.Overwrite = source.Output.Overwrite
	target.Output.TimestampSuffix = source.Output.TimestampSuffix

	// Theme config
	if source.Theme.TitleColor != "" {
		target.Theme.TitleColor = source.Theme.TitleColor
	}
	if source.Theme.BodyColor != "" {
		target.Theme.BodyColor = source.Theme.BodyColor
	}
	if source.Theme.AccentColor != "" {
		target.Theme.AccentColor = source.Theme.AccentColor
	}
	if source.Theme.BackgroundColor != "" {
		target.Theme.BackgroundColor = source.Theme.BackgroundColor
	}
	if source.Theme.FontFamily != "" {
		target.Theme.FontFamily = source.Theme.FontFamily
	}

	// Charts config
	if source.Charts.Width != 0 {
		target.Charts.Width = source.Charts.Width
	}
	if source.Charts.Height != 0 {
		target.Charts.Height = source.Charts.Height
	}
	if source.Charts.TopN != 0 {
		target.Charts.TopN = source.Charts.TopN
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = source.Logging.Verbose
}

// deepCopy creates a copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	// The config holds only value types, so a shallow struct copy is a
	// full copy
	dst := *src
	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
