package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpenessot/deckgen/internal/adapters/secondary/chart"
	"github.com/gpenessot/deckgen/internal/adapters/secondary/dataset"
	"github.com/gpenessot/deckgen/internal/adapters/secondary/goppt"
	"github.com/gpenessot/deckgen/internal/adapters/secondary/parser"
	"github.com/gpenessot/deckgen/internal/adapters/secondary/reportspec"
	"github.com/gpenessot/deckgen/internal/domain/services"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [spec]",
	Short: "Compose an analysis deck from a CSV dataset",
	Long: `Load a dataset, render the charts declared in the report spec and
compose a complete deck from scratch: title slide, one chart slide per
declared chart, and bullet slides from the optional markdown notes.

Example:
  deckgen report report.yaml
  deckgen report catalog.yaml --top-n 5 --output analysis.pptx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().Int("top-n", 0, "Number of categories for top-N bar charts (overrides config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	specPath := "report.yaml"
	if len(args) == 1 {
		specPath = args[0]
	}

	cfg, err := loadAndValidateConfig(cmd, specPath)
	if err != nil {
		return err
	}

	logger := newCommandLogger(cmd, cfg)

	spec, err := reportspec.NewYAMLLoader().Load(cmd.Context(), specPath)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = spec.Output
	}
	if outputPath == "" {
		outputPath = deriveOutputPath(spec.Dataset, "_report", cfg)
	}

	if err := checkOverwrite(outputPath, cfg); err != nil {
		return err
	}

	svc := services.NewReportService(
		dataset.NewCSVLoader(),
		chart.NewRenderer(cfg.Charts.GetWidth(), cfg.Charts.GetHeight()),
		parser.NewGoldmarkNotesParser(),
		goppt.NewComposer(cfg.Theme),
		cfg.Charts,
	)

	logger.Info("Generating %q from %s (%d charts)", spec.Title, spec.Dataset, len(spec.Charts))

	result, err := svc.Generate(cmd.Context(), spec, outputPath)
	if err != nil {
		return err
	}

	logger.Success("Wrote %s (%d slides, %d charts, %d rows) in %s",
		result.OutputPath, result.Slides, result.Charts, result.Rows,
		result.Duration.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", result.OutputPath)

	return nil
}
