package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/dgallion1/sagadocs/internal/config"
	"github.com/dgallion1/sagadocs/internal/fetch"
	"github.com/dgallion1/sagadocs/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags scrapeFlags

	root := &cobra.Command{
		Use:          "sagadocs",
		Short:        "Scrape the wiki saga table into markdown documents",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags.apply(cmd, &cfg)

			log := newLogger(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := fetch.NewClient(cfg.UserAgent, cfg.HTTPTimeout)
			defer client.Close()

			log.Info("starting sagadocs", "toc", cfg.TOCURL, "output_dir", cfg.OutputDir, "concurrency", cfg.Concurrency)
			if _, err := pipeline.NewScraper(cfg, client, log, cmd.OutOrStdout()).Run(ctx); err != nil {
				return fmt.Errorf("scrape failed: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory the markdown files are written to (must exist)")
	root.Flags().StringVar(&flags.writeMode, "write-mode", "", "overwrite or append when several main sagas share a file")
	root.Flags().IntVar(&flags.concurrency, "concurrency", 0, "maximum concurrent arc page fetches")

	root.AddCommand(newInspectCmd(), newServeCmd())
	return root
}

// scrapeFlags override the environment configuration when set explicitly.
type scrapeFlags struct {
	outputDir   string
	writeMode   string
	concurrency int
}

func (f scrapeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if cmd.Flags().Changed("write-mode") {
		cfg.WriteMode = strings.ToLower(f.writeMode)
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
}

// newLogger builds the stderr logger; stdout is reserved for the tree trace.
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
