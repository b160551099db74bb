package pipeline

import (
	"bytes"
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/sagadocs/internal/fetch"
	"github.com/dgallion1/sagadocs/internal/sagatree"
	"github.com/dgallion1/sagadocs/internal/wiki"
)

// Fetcher retrieves a single page.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Page, error)
}

// Enricher fills arc summaries from their detail pages.
type Enricher struct {
	fetcher     Fetcher
	log         *slog.Logger
	concurrency int
}

func NewEnricher(f Fetcher, log *slog.Logger, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{fetcher: f, log: log, concurrency: concurrency}
}

// Enrich fetches every arc that has a URL with at most e.concurrency requests
// in flight and stores the extracted summary on the arc. A failed arc never
// stops the others. Results come back in document order.
func (e *Enricher) Enrich(ctx context.Context, mains []*sagatree.MainSaga) []ArcResult {
	arcs := sagatree.Arcs(mains)
	results := make([]ArcResult, len(arcs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, arc := range arcs {
		results[i] = ArcResult{Title: arc.Title, URL: arc.URL}
		if arc.URL == "" {
			arc.Summary = ""
			results[i].Status = StatusSkipped
			continue
		}
		if err := ctx.Err(); err != nil {
			results[i].Status = StatusFailed
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			e.enrichArc(ctx, arc, &results[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Enricher) enrichArc(ctx context.Context, arc *sagatree.Arc, res *ArcResult) {
	log := e.log.With("arc", arc.Title, "url", arc.URL)

	page, err := e.fetcher.Get(ctx, arc.URL)
	if err != nil {
		log.Warn("arc fetch failed", "error", err)
		arc.Summary = ""
		res.Status = StatusFailed
		res.Err = err
		return
	}
	res.HTTPStatus = page.StatusCode
	if !page.OK() {
		log.Warn("arc page returned non-200", "status", page.StatusCode)
		arc.Summary = ""
		res.Status = StatusHTTPError
		return
	}

	summary, err := wiki.ExtractSummary(bytes.NewReader(page.Body))
	if err != nil {
		log.Warn("arc page parse failed", "error", err)
		res.Status = StatusFailed
		res.Err = err
		return
	}
	arc.Summary = summary
	if summary == wiki.NoSummary {
		log.Debug("arc page has no summary section")
		res.Status = StatusNoSummary
		return
	}
	log.Debug("arc enriched", "summary_bytes", len(summary))
	res.Status = StatusOK
}
