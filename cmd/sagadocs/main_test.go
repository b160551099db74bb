package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dgallion1/sagadocs/internal/config"
)

func TestRoot_ReportsFlagErrors(t *testing.T) {
	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--bogus"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(stderr.String(), "unknown flag: --bogus") {
		t.Errorf("expected the flag error on stderr, got %q", stderr.String())
	}
}

func TestScrapeFlags_Apply(t *testing.T) {
	var flags scrapeFlags
	cmd := &cobra.Command{Use: "sagadocs"}
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "")
	cmd.Flags().StringVar(&flags.writeMode, "write-mode", "", "")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "")
	if err := cmd.ParseFlags([]string{"--write-mode", "Append", "--concurrency", "8"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Config{OutputDir: "./docs", WriteMode: config.WriteModeOverwrite, Concurrency: 4}
	flags.apply(cmd, &cfg)

	if cfg.WriteMode != config.WriteModeAppend {
		t.Errorf("expected write mode %q, got %q", config.WriteModeAppend, cfg.WriteMode)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
	}
	if cfg.OutputDir != "./docs" {
		t.Errorf("unset flag overrode output dir: %q", cfg.OutputDir)
	}
}
