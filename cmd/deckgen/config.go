package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpenessot/deckgen/internal/adapters/secondary/config"
	"github.com/gpenessot/deckgen/internal/domain/entities"
)

// loadAndValidateConfig resolves the effective configuration with proper
// precedence: CLI flags > DECKGEN_* env > local config > global config >
// defaults. The local config is looked up next to the input file.
func loadAndValidateConfig(cmd *cobra.Command, inputPath string) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	merger := config.NewConfigMerger()
	ctx := cmd.Context()

	globalConfig, err := loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	// An explicit --config replaces the local config discovery
	var localConfig *entities.Config
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		localConfig, err = loader.LoadFile(ctx, configPath)
	} else {
		localConfig, err = loader.LoadLocal(ctx, filepath.Dir(inputPath))
	}
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	finalConfig := merger.Merge(config.GetDefaultConfig(), globalConfig, localConfig)
	finalConfig = merger.ApplyEnvVars(finalConfig)
	finalConfig = merger.ApplyFlags(finalConfig, collectFlags(cmd))

	if err := finalConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return finalConfig, nil
}

// collectFlags gathers the override flags that were explicitly set
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	if cmd.Flags().Changed("output-dir") {
		dir, _ := cmd.Flags().GetString("output-dir")
		flags["output-dir"] = dir
	}
	if cmd.Flags().Changed("overwrite") {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		flags["overwrite"] = overwrite
	}
	if cmd.Flags().Changed("top-n") {
		topN, _ := cmd.Flags().GetInt("top-n")
		flags["top-n"] = topN
	}
	if cmd.Flags().Changed("verbose") {
		verbose, _ := cmd.Flags().GetBool("verbose")
		flags["verbose"] = verbose
	}

	return flags
}

// newCommandLogger builds the logger for a command run
func newCommandLogger(cmd *cobra.Command, cfg *entities.Config) *Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !cmd.Flags().Changed("verbose") {
		verbose = cfg.Logging.Verbose
	}
	return newLoggerWithLevel(verbose, cfg.Logging.GetLevel())
}

// deriveOutputPath builds an output path from the input file's stem when
// neither the flag nor the manifest/spec names one
func deriveOutputPath(inputPath string, suffix string, cfg *entities.Config) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := stem + suffix
	if cfg.Output.TimestampSuffix {
		name += "_" + time.Now().Format("20060102_150405")
	}
	return filepath.Join(cfg.Output.Directory, name+".pptx")
}

// checkOverwrite refuses to clobber an existing output unless allowed
func checkOverwrite(path string, cfg *entities.Config) error {
	if cfg.Output.Overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("output file %s already exists (use --overwrite to replace it)", path)
	}
	return nil
}
