// Package perf keeps a bounded in-memory window of request and query
// timings so the admin area can answer "what was slow lately" without
// any external monitoring.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize bounds memory: at most this many entries are retained.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is one observed timing.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /shifts" for requests, a query label for queries
	StatusCode int    // HTTP status, zero for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector holds recent entries in a fixed ring. Record never blocks
// the request path beyond a short mutex hold; old entries fall off the
// back. All aggregation is deferred to Snapshot.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	head  int
	total int64 // lifetime count, read atomically
}

// NewCollector allocates a collector retaining up to size entries.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, displacing the oldest entry once the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.head] = e
	c.head = (c.head + 1) % len(c.ring)
	c.mu.Unlock()
	atomic.AddInt64(&c.total, 1)
}

// TotalRecorded returns how many entries were ever recorded, including
// ones that have since fallen off the ring.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.total)
}

// Snapshot is the aggregate view served by the admin perf endpoint.
type Snapshot struct {
	TotalRequests  int64
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
}

// PathStat aggregates the entries sharing one path or query label.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot aggregates entries recorded at or after since, keeping the
// topN slowest paths and queries by average duration. Sorting makes it
// too expensive for the hot path; it only runs when an admin asks.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	window := make([]Entry, len(c.ring))
	copy(window, c.ring)
	c.mu.Unlock()

	var latencies []float64
	requests := make(map[string]*PathStat)
	queries := make(map[string]*PathStat)

	for _, e := range window {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			latencies = append(latencies, e.DurationMs)
			accumulate(requests, e)
		case KindQuery:
			accumulate(queries, e)
		}
	}

	snap := Snapshot{
		TotalRequests:  c.TotalRecorded(),
		SlowestPaths:   rankByAvg(requests, topN),
		SlowestQueries: rankByAvg(queries, topN),
	}

	if len(latencies) > 0 {
		sort.Float64s(latencies)
		snap.RequestP50Ms = percentile(latencies, 50)
		snap.RequestP95Ms = percentile(latencies, 95)
		snap.RequestP99Ms = percentile(latencies, 99)
	}

	return snap
}

func accumulate(stats map[string]*PathStat, e Entry) {
	s, ok := stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
}

// percentile uses the nearest-rank method on an ascending slice.
// PRE: sorted is ascending
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(p / 100 * float64(len(sorted)))
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

// rankByAvg finalizes averages and returns the n slowest stats.
func rankByAvg(stats map[string]*PathStat, n int) []PathStat {
	ranked := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		ranked = append(ranked, *s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].AvgMs > ranked[j].AvgMs
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
