package fetch

import (
	"slices"
	"sync"
	"time"
)

// Observation is one completed (or failed) page fetch. Status is 0 when the
// request never got a response.
type Observation struct {
	At      time.Time
	Latency time.Duration
	Status  int
	Bytes   int
}

// StatsSnapshot aggregates the fetches still inside the window.
type StatsSnapshot struct {
	Count  int   `json:"count"`
	Failed int   `json:"failed"`
	NonOK  int   `json:"non_ok"`
	Bytes  int64 `json:"bytes"`

	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats keeps a rolling window of fetch observations. Safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	window time.Duration
	obs    []Observation
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, obs: make([]Observation, 0, 256)}
}

// Record adds o to the window. A zero At means now; negative latencies count as zero.
func (s *Stats) Record(o Observation) {
	if o.At.IsZero() {
		o.At = time.Now()
	}
	o.Latency = max(o.Latency, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(time.Now())
	s.obs = append(s.obs, o)
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(time.Now())
	var snap StatsSnapshot
	if len(s.obs) == 0 {
		return snap
	}

	ms := make([]int64, len(s.obs))
	var total int64
	for i, o := range s.obs {
		switch {
		case o.Status == 0:
			snap.Failed++
		case o.Status != 200:
			snap.NonOK++
		}
		snap.Bytes += int64(o.Bytes)
		ms[i] = o.Latency.Milliseconds()
		total += ms[i]
	}
	slices.Sort(ms)

	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(total) / float64(len(ms))
	snap.P50Ms = rank(ms, 0.50)
	snap.P95Ms = rank(ms, 0.95)
	snap.P99Ms = rank(ms, 0.99)
	return snap
}

// expireLocked drops observations older than the window.
func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.obs = slices.DeleteFunc(s.obs, func(o Observation) bool {
		return o.At.Before(cutoff)
	})
}

// rank returns the q-quantile of sorted, interpolating between neighbours.
func rank(sorted []int64, q float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case q <= 0:
		return float64(sorted[0])
	case q >= 1:
		return float64(sorted[len(sorted)-1])
	}
	pos := float64(len(sorted)-1) * q
	i := int(pos)
	if i+1 >= len(sorted) {
		return float64(sorted[i])
	}
	lo, hi := float64(sorted[i]), float64(sorted[i+1])
	return lo + (hi-lo)*(pos-float64(i))
}
