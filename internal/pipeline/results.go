package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// ArcStatus is the outcome of enriching one arc.
type ArcStatus string

const (
	StatusOK        ArcStatus = "ok"
	StatusNoSummary ArcStatus = "no_summary"
	StatusHTTPError ArcStatus = "http_error"
	StatusFailed    ArcStatus = "failed"
	StatusSkipped   ArcStatus = "skipped"
)

// ArcResult records what happened to a single arc during enrichment.
type ArcResult struct {
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	Status     ArcStatus `json:"status"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Err        error     `json:"-"`
}

// Tally counts results per status.
type Tally map[ArcStatus]int

// Count groups results by status.
func Count(results []ArcResult) Tally {
	t := make(Tally)
	for _, r := range results {
		t[r.Status]++
	}
	return t
}

// String renders the tally in a stable order, e.g. "failed=1 ok=12".
func (t Tally) String() string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, t[ArcStatus(k)]))
	}
	return strings.Join(parts, " ")
}

// Failures returns the results whose fetch did not complete.
func Failures(results []ArcResult) []ArcResult {
	var out []ArcResult
	for _, r := range results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
