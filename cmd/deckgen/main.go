package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "A CLI tool for generating PowerPoint decks",
	Long: `deckgen builds PowerPoint presentations from the command line.
It fills pptx templates from a content manifest, or composes complete
analysis decks from a CSV dataset - charts, bullets and all - without
opening PowerPoint once.`,
	Version: Version,
}

func main() {
	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Execute root command with context
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: ./.deckgen.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (overrides manifest/spec)")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for derived output paths (overrides config)")
	rootCmd.PersistentFlags().Bool("overwrite", false, "Allow overwriting existing output files (overrides config)")
}
