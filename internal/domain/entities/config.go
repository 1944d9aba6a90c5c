package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	Output  OutputConfig  `toml:"output"`
	Theme   ThemeConfig   `toml:"theme"`
	Charts  ChartsConfig  `toml:"charts"`
	Logging LoggingConfig `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Theme.Validate(); err != nil {
		return fmt.Errorf("theme config: %w", err)
	}

	if err := c.Charts.Validate(); err != nil {
		return fmt.Errorf("charts config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// OutputConfig controls where and how generated decks are written
type OutputConfig struct {
	Directory       string `toml:"directory"`        // Default output directory
	Overwrite       bool   `toml:"overwrite"`        // Allow overwriting existing files
	TimestampSuffix bool   `toml:"timestamp_suffix"` // Append a timestamp to derived output names
}

// Validate validates output configuration
func (o OutputConfig) Validate() error {
	if strings.ContainsAny(o.Directory, "\x00") {
		return errors.New("invalid output directory")
	}
	return nil
}

// ThemeConfig holds the deck color scheme used when composing decks from
// scratch. Colors are 8-digit ARGB hex strings, the form GoPPT expects.
type ThemeConfig struct {
	TitleColor      string `toml:"title_color"`
	BodyColor       string `toml:"body_color"`
	AccentColor     string `toml:"accent_color"`
	BackgroundColor string `toml:"background_color"`
	FontFamily      string `toml:"font_family"`
}

// Validate validates theme configuration
func (t ThemeConfig) Validate() error {
	for name, value := range map[string]string{
		"title_color":      t.TitleColor,
		"body_color":       t.BodyColor,
		"accent_color":     t.AccentColor,
		"background_color": t.BackgroundColor,
	} {
		if value == "" {
			continue
		}
		if err := validateARGB(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// validateARGB checks an 8-digit ARGB hex color string
func validateARGB(value string) error {
	if len(value) != 8 {
		return fmt.Errorf("color %q must be 8 hex digits (ARGB)", value)
	}
	for _, r := range value {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return fmt.Errorf("color %q contains non-hex character %q", value, r)
		}
	}
	return nil
}

// ChartsConfig controls chart rendering for the report pipeline
type ChartsConfig struct {
	Width  int `toml:"width"`  // Chart width in pixels
	Height int `toml:"height"` // Chart height in pixels
	TopN   int `toml:"top_n"`  // Default number of categories for top-N charts
}

// Validate validates chart configuration
func (c ChartsConfig) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return errors.New("chart dimensions must be non-negative")
	}

	if c.Width > 0 && c.Width < 100 {
		return errors.New("chart width must be at least 100 pixels")
	}

	if c.Height > 0 && c.Height < 100 {
		return errors.New("chart height must be at least 100 pixels")
	}

	if c.TopN < 0 {
		return errors.New("top_n must be non-negative")
	}

	return nil
}

// GetWidth returns the chart width, falling back to the default
func (c ChartsConfig) GetWidth() int {
	if c.Width <= 0 {
		return 1000
	}
	return c.Width
}

// GetHeight returns the chart height, falling back to the default
func (c ChartsConfig) GetHeight() int {
	if c.Height <= 0 {
		return 600
	}
	return c.Height
}

// GetTopN returns the top-N default, falling back to 10
func (c ChartsConfig) GetTopN() int {
	if c.TopN <= 0 {
		return 10
	}
	return c.TopN
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	if l.Level == "" {
		return nil
	}

	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
}

// GetLevel returns the configured level, defaulting to info
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
