package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpenessot/deckgen/internal/adapters/secondary/manifest"
	"github.com/gpenessot/deckgen/internal/adapters/secondary/pptx"
	"github.com/gpenessot/deckgen/internal/domain/services"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [manifest]",
	Short: "Fill a pptx template from a content manifest",
	Long: `Load a pptx template, apply the manifest's ordered content entries -
text values and image swaps - and write the populated deck.

Example:
  deckgen generate deckgen.toml
  deckgen generate quarterly.toml --output q3_results.pptx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	manifestPath := "deckgen.toml"
	if len(args) == 1 {
		manifestPath = args[0]
	}

	cfg, err := loadAndValidateConfig(cmd, manifestPath)
	if err != nil {
		return err
	}

	logger := newCommandLogger(cmd, cfg)

	builder := services.NewBuilderService(pptx.NewStore(), manifest.NewTOMLLoader())

	outputFlag, _ := cmd.Flags().GetString("output")

	logger.Info("Building deck from %s", manifestPath)

	result, err := builder.Build(cmd.Context(), manifestPath, services.BuildOptions{
		OutputPath: outputFlag,
		DefaultOutput: func(templatePath string) string {
			return deriveOutputPath(templatePath, "_generated", cfg)
		},
		Overwrite: cfg.Output.Overwrite,
	})
	if err != nil {
		return err
	}

	logger.Success("Wrote %s (%d slides, %d entries applied) in %s",
		result.OutputPath, result.Slides, result.Entries, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", result.OutputPath)

	return nil
}
