// Package interactions resolves user-entered medication names against an
// immutable in-memory corpus of interaction records. The corpus is fetched and
// indexed at most once per process; every read after that is lock-free.
package interactions

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
	"github.com/snplmntn/ainay-companion-care-sub003/metrics"
)

// Bounds for the linear fallback passes. They cap worst-case latency on
// corpora that grew past their indexes, not expected behavior.
const (
	exactScanLimit = 100
	fuzzyScanLimit = 500
)

// Engine owns the corpus lifecycle and serves every resolution operation.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	fetcher    interfaces.DatasetFetcher
	exactLimit int
	fuzzyLimit int

	snap    atomic.Value // *snapshot, nil until the first successful load
	flight  singleflight.Group
	loadErr atomic.Pointer[string]
}

func NewEngine(fetcher interfaces.DatasetFetcher) *Engine {
	return NewEngineWithLimits(fetcher, exactScanLimit, fuzzyScanLimit)
}

// NewEngineWithLimits overrides the fallback scan bounds. Tests and unusually
// shaped corpora are the only expected callers.
func NewEngineWithLimits(fetcher interfaces.DatasetFetcher, exactLimit, fuzzyLimit int) *Engine {
	if exactLimit <= 0 {
		exactLimit = exactScanLimit
	}
	if fuzzyLimit <= 0 {
		fuzzyLimit = fuzzyScanLimit
	}
	return &Engine{fetcher: fetcher, exactLimit: exactLimit, fuzzyLimit: fuzzyLimit}
}

// current returns the loaded snapshot, or nil before the first successful load.
func (e *Engine) current() *snapshot {
	if v := e.snap.Load(); v != nil {
		return v.(*snapshot)
	}
	return nil
}

// load returns the corpus snapshot, fetching and indexing it on first use.
// Concurrent first callers coalesce onto a single fetch and all see its
// outcome. A failure is surfaced, never cached: the next caller retries.
func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	if s := e.current(); s != nil {
		return s, nil
	}
	v, err, _ := e.flight.Do("corpus", func() (interface{}, error) {
		// A caller that lost the race to a completed flight still finds
		// the snapshot here.
		if s := e.current(); s != nil {
			return s, nil
		}
		start := time.Now()
		records, err := e.fetcher.FetchInteractions(ctx)
		if err != nil {
			return nil, fmt.Errorf("interactions: loading corpus: %w", err)
		}
		pairs, err := e.fetcher.FetchPairs(ctx)
		if err != nil {
			return nil, fmt.Errorf("interactions: loading pair corpus: %w", err)
		}
		s := newSnapshot(records, pairs)
		e.snap.Store(s)
		e.loadErr.Store(nil)

		elapsed := time.Since(start)
		metrics.CorpusLoadDuration.Observe(elapsed.Seconds())
		metrics.CorpusRecords.Set(float64(len(s.records)))
		metrics.CorpusPairs.Set(float64(len(s.pairList)))
		metrics.CorpusLoadedAt.Set(float64(s.loadedAt.Unix()))
		logging.Info("interaction corpus loaded",
			"records", len(s.records),
			"pairs", len(s.pairList),
			"skipped", s.skipped,
			"elapsed", elapsed.Round(time.Millisecond).String())
		return s, nil
	})
	if err != nil {
		msg := err.Error()
		e.loadErr.Store(&msg)
		return nil, err
	}
	return v.(*snapshot), nil
}

// ResolveExact returns the single record for a user-entered medication name,
// or (nil, nil) when nothing matches. The only error condition is a corpus
// load failure.
func (e *Engine) ResolveExact(ctx context.Context, name string) (*entities.InteractionRecord, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, tier := s.resolveExact(name, e.exactLimit)
	metrics.ResolveOutcomes.WithLabelValues(tier).Inc()
	if tier == tierMiss {
		return nil, nil
	}
	out := rec
	return &out, nil
}

// SearchFuzzy returns up to limit records matching a partial query, in
// discovery order. A non-positive limit or an unusable query yields an empty
// result, not an error.
func (e *Engine) SearchFuzzy(ctx context.Context, query string, limit int) ([]entities.InteractionRecord, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SearchRequests.Inc()
	return s.searchFuzzy(query, limit, e.fuzzyLimit), nil
}

// BatchResolve maps each of the caller's names, under its original spelling,
// to that drug's warnings. Names that match nothing and names whose record
// has no warnings are absent from the result.
func (e *Engine) BatchResolve(ctx context.Context, names []string) (map[string][]string, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.batchResolve(names, e.exactLimit), nil
}

// BuildContextBlock renders the warnings for a medication list as prompt-ready
// plain text, or "" when no listed drug has any.
func (e *Engine) BuildContextBlock(ctx context.Context, names []string) (string, error) {
	s, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	return s.buildContextBlock(names, e.exactLimit), nil
}

// Warm forces the corpus load without waiting for the first query.
func (e *Engine) Warm(ctx context.Context) error {
	_, err := e.load(ctx)
	return err
}

// Loaded reports whether a corpus snapshot is in place.
func (e *Engine) Loaded() bool {
	return e.current() != nil
}

// RecordCount returns the number of loaded records, 0 before the first load.
func (e *Engine) RecordCount() int {
	if s := e.current(); s != nil {
		return len(s.records)
	}
	return 0
}

// PairCount returns the number of loaded pair entries.
func (e *Engine) PairCount() int {
	if s := e.current(); s != nil {
		return len(s.pairList)
	}
	return 0
}

// LoadedAt returns the load completion time, zero before the first load.
func (e *Engine) LoadedAt() time.Time {
	if s := e.current(); s != nil {
		return s.loadedAt
	}
	return time.Time{}
}

// LastLoadError returns the most recent load failure, "" after a success or
// before any attempt.
func (e *Engine) LastLoadError() string {
	if p := e.loadErr.Load(); p != nil {
		return *p
	}
	return ""
}

// Compile-time interface conformance checks.
var (
	_ interfaces.Resolver    = (*Engine)(nil)
	_ interfaces.PairChecker = (*Engine)(nil)
	_ interfaces.Warmer      = (*Engine)(nil)
)
