package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/sagadocs/internal/config"
	"github.com/dgallion1/sagadocs/internal/fetch"
	"github.com/dgallion1/sagadocs/internal/render"
	"github.com/dgallion1/sagadocs/internal/sagatree"
	"github.com/dgallion1/sagadocs/internal/wiki"
)

// CompletionMessage is printed after the documents are written.
const CompletionMessage = "Markdown files have been created."

// Result is everything a scrape produced.
type Result struct {
	RunID     string
	MainSagas []*sagatree.MainSaga
	Report    wiki.Report
	Arcs      []ArcResult
	Files     []render.WrittenFile
}

// Scraper runs discovery, enrichment and writing for one chapters page.
type Scraper struct {
	cfg    config.Config
	client *fetch.Client
	log    *slog.Logger
	out    io.Writer
}

// NewScraper wires a scraper; out receives the human-readable trace.
func NewScraper(cfg config.Config, client *fetch.Client, log *slog.Logger, out io.Writer) *Scraper {
	return &Scraper{cfg: cfg, client: client, log: log, out: out}
}

// Run fetches the table of contents, enriches every arc and writes the
// markdown documents. Only a failed TOC fetch, a malformed header row, a
// cancelled context or an output error abort the run; a cancelled run writes
// nothing.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	runID := newRunID()
	log := s.log.With("run_id", runID, "toc_url", s.cfg.TOCURL)

	// Phase 1: Discover
	page, err := s.client.Get(ctx, s.cfg.TOCURL)
	if err != nil {
		return nil, fmt.Errorf("fetch toc: %w", err)
	}
	if !page.OK() {
		log.Warn("toc page returned non-200, parsing anyway", "status", page.StatusCode)
	}

	disc, err := wiki.DiscoverReader(bytes.NewReader(page.Body), s.cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	totals := sagatree.Counts(disc.MainSagas)
	log.Info("discovered table of contents",
		"main_sagas", totals.MainSagas,
		"sagas", totals.Sagas,
		"arcs", totals.Arcs,
		"dropped", len(disc.Report.Dropped),
	)
	for _, d := range disc.Report.Dropped {
		log.Debug("dropped table entry", "row", d.Row, "column", d.Column, "title", d.Title, "reason", d.Reason)
	}
	for _, title := range disc.Report.Flagged {
		log.Warn("main saga matches no output category", "title", title)
	}

	// Phase 2: Enrich
	enricher := NewEnricher(s.client, log, s.cfg.Concurrency)
	arcs := enricher.Enrich(ctx, disc.MainSagas)
	if err := ctx.Err(); err != nil {
		log.Warn("enrichment interrupted, leaving documents untouched", "results", Count(arcs).String())
		return nil, fmt.Errorf("enrich: %w", err)
	}
	log.Info("enrichment complete", "results", Count(arcs).String(), "fetch_stats", s.client.Stats.Snapshot())
	for _, f := range Failures(arcs) {
		log.Error("arc not enriched", "arc", f.Title, "url", f.URL, "error", f.Err)
	}

	// Phase 3: Write
	writer := render.NewWriter(s.cfg.OutputDir, render.Mode(s.cfg.WriteMode), log)
	files, err := writer.Write(disc.MainSagas)
	if err != nil {
		return nil, fmt.Errorf("write documents: %w", err)
	}
	for _, f := range files {
		log.Info("wrote document", "path", f.Path, "category", f.Category, "main_sagas", f.MainSagas)
	}

	if err := sagatree.PrintTree(s.out, disc.MainSagas); err != nil {
		return nil, fmt.Errorf("print tree: %w", err)
	}
	fmt.Fprintln(s.out, CompletionMessage)

	return &Result{
		RunID:     runID,
		MainSagas: disc.MainSagas,
		Report:    disc.Report,
		Arcs:      arcs,
		Files:     files,
	}, nil
}
