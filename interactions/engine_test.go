package interactions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
)

// stubFetcher counts fetches and can be told to fail for the first N calls.
type stubFetcher struct {
	records []entities.InteractionRecord
	pairs   []entities.PairInteraction
	delay   time.Duration

	calls    atomic.Int32
	failures atomic.Int32 // fail this many FetchInteractions calls, then succeed
}

func (f *stubFetcher) FetchInteractions(ctx context.Context) ([]entities.InteractionRecord, error) {
	n := f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if n <= f.failures.Load() {
		return nil, errors.New("upstream unavailable")
	}
	return f.records, nil
}

func (f *stubFetcher) FetchPairs(ctx context.Context) ([]entities.PairInteraction, error) {
	return f.pairs, nil
}

func engineFixtureRecords() []entities.InteractionRecord {
	return []entities.InteractionRecord{
		{Name: "Warfarin", Reference: "ref-w", Interactions: []string{"Increased bleeding risk with NSAIDs"}},
		{Name: "Aspirin", Reference: "ref-a", Interactions: []string{"May increase bleeding risk"}},
		{Name: "Metformin", Reference: "ref-m", Interactions: nil},
	}
}

func engineFixturePairs() []entities.PairInteraction {
	return []entities.PairInteraction{
		{DrugA: "Warfarin", DrugB: "Aspirin", Severity: entities.SeverityMajor, Description: "Bleeding risk"},
	}
}

func TestEngineResolveExact(t *testing.T) {
	engine := NewEngine(&stubFetcher{records: engineFixtureRecords()})
	ctx := context.Background()

	rec, err := engine.ResolveExact(ctx, "Coumadin 5mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record for Coumadin")
	}
	if rec.Name != "Warfarin" {
		t.Errorf("expected Warfarin, got %q", rec.Name)
	}

	rec, err = engine.ResolveExact(ctx, "notadrugatall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for a miss, got %v", rec)
	}
}

func TestEngineResolveExact_ReturnsCopy(t *testing.T) {
	engine := NewEngine(&stubFetcher{records: engineFixtureRecords()})
	ctx := context.Background()

	first, err := engine.ResolveExact(ctx, "Warfarin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Name = "mutated"

	second, err := engine.ResolveExact(ctx, "Warfarin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Name != "Warfarin" {
		t.Error("callers must not be able to mutate the snapshot through a result")
	}
}

func TestEngineSearchFuzzy(t *testing.T) {
	engine := NewEngine(&stubFetcher{records: engineFixtureRecords()})
	ctx := context.Background()

	results, err := engine.SearchFuzzy(ctx, "War", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Warfarin" {
		t.Errorf("expected [Warfarin], got %v", results)
	}

	results, err = engine.SearchFuzzy(ctx, "War", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for zero limit, got %v", results)
	}
}

func TestEngineBatchResolve(t *testing.T) {
	engine := NewEngine(&stubFetcher{records: engineFixtureRecords()})
	ctx := context.Background()

	warnings, err := engine.BatchResolve(ctx, []string{"Warfarin", "Metformin", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected only Warfarin in the result, got %v", warnings)
	}
}

func TestEngineBuildContextBlock(t *testing.T) {
	engine := NewEngine(&stubFetcher{records: engineFixtureRecords()})
	ctx := context.Background()

	block, err := engine.BuildContextBlock(ctx, []string{"Warfarin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block == "" {
		t.Error("expected a non-empty context block")
	}

	block, err = engine.BuildContextBlock(ctx, []string{"missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block != "" {
		t.Errorf("expected empty block, got %q", block)
	}
}

func TestEngineCheckPair(t *testing.T) {
	engine := NewEngine(&stubFetcher{
		records: engineFixtureRecords(),
		pairs:   engineFixturePairs(),
	})
	ctx := context.Background()

	p, err := engine.CheckPair(ctx, "Coumadin", "Aspirin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected a pair hit via the alias")
	}
	if p.Severity != entities.SeverityMajor {
		t.Errorf("expected major severity, got %q", p.Severity)
	}

	p, err = engine.CheckPair(ctx, "Warfarin", "Metformin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for an unknown pair, got %v", p)
	}
}

func TestEngineLoadsOnce(t *testing.T) {
	fetcher := &stubFetcher{records: engineFixtureRecords(), delay: 20 * time.Millisecond}
	engine := NewEngine(fetcher)

	const goroutines = 25

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ResolveExact(context.Background(), "Warfarin")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent resolve failed: %v", err)
		}
	}

	if calls := fetcher.calls.Load(); calls != 1 {
		t.Errorf("expected exactly 1 fetch for %d concurrent callers, got %d", goroutines, calls)
	}

	// Later calls reuse the snapshot without another fetch.
	if _, err := engine.ResolveExact(context.Background(), "Aspirin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := fetcher.calls.Load(); calls != 1 {
		t.Errorf("expected the snapshot to be reused, got %d fetches", calls)
	}
}

func TestEngineLoadFailureIsRetried(t *testing.T) {
	fetcher := &stubFetcher{records: engineFixtureRecords()}
	fetcher.failures.Store(1)
	engine := NewEngine(fetcher)
	ctx := context.Background()

	if _, err := engine.ResolveExact(ctx, "Warfarin"); err == nil {
		t.Fatal("expected the first load to fail")
	}
	if engine.Loaded() {
		t.Error("a failed load must not mark the engine loaded")
	}
	if engine.LastLoadError() == "" {
		t.Error("expected LastLoadError to be recorded")
	}

	// The failure was not cached: the next call fetches again and succeeds.
	rec, err := engine.ResolveExact(ctx, "Warfarin")
	if err != nil {
		t.Fatalf("expected the retry to succeed, got: %v", err)
	}
	if rec == nil || rec.Name != "Warfarin" {
		t.Errorf("expected Warfarin after retry, got %v", rec)
	}
	if !engine.Loaded() {
		t.Error("engine should be loaded after the retry")
	}
	if engine.LastLoadError() != "" {
		t.Errorf("expected LastLoadError cleared after success, got %q", engine.LastLoadError())
	}
	if calls := fetcher.calls.Load(); calls != 2 {
		t.Errorf("expected 2 fetches (one failure, one success), got %d", calls)
	}
}

func TestEngineWarm(t *testing.T) {
	fetcher := &stubFetcher{
		records: engineFixtureRecords(),
		pairs:   engineFixturePairs(),
	}
	engine := NewEngine(fetcher)

	if engine.Loaded() {
		t.Fatal("engine should start unloaded")
	}
	if engine.RecordCount() != 0 || engine.PairCount() != 0 {
		t.Error("counts should be zero before the first load")
	}
	if !engine.LoadedAt().IsZero() {
		t.Error("LoadedAt should be zero before the first load")
	}

	if err := engine.Warm(context.Background()); err != nil {
		t.Fatalf("warm failed: %v", err)
	}

	if !engine.Loaded() {
		t.Error("engine should be loaded after Warm")
	}
	if got := engine.RecordCount(); got != 3 {
		t.Errorf("expected 3 records, got %d", got)
	}
	if got := engine.PairCount(); got != 1 {
		t.Errorf("expected 1 pair, got %d", got)
	}
	if engine.LoadedAt().IsZero() {
		t.Error("LoadedAt should be set after Warm")
	}
	if calls := fetcher.calls.Load(); calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
}

func TestNewEngineWithLimits(t *testing.T) {
	fetcher := &stubFetcher{}

	engine := NewEngineWithLimits(fetcher, 10, 20)
	if engine.exactLimit != 10 || engine.fuzzyLimit != 20 {
		t.Errorf("expected limits 10/20, got %d/%d", engine.exactLimit, engine.fuzzyLimit)
	}

	// Non-positive overrides fall back to the defaults.
	engine = NewEngineWithLimits(fetcher, 0, -5)
	if engine.exactLimit != exactScanLimit || engine.fuzzyLimit != fuzzyScanLimit {
		t.Errorf("expected default limits %d/%d, got %d/%d",
			exactScanLimit, fuzzyScanLimit, engine.exactLimit, engine.fuzzyLimit)
	}
}

func BenchmarkEngineResolveExact(b *testing.B) {
	records := make([]entities.InteractionRecord, 1000)
	for i := range 1000 {
		records[i] = entities.InteractionRecord{
			Name:         fmt.Sprintf("drug%d", i),
			Interactions: []string{"May interact with other medications"},
		}
	}
	engine := NewEngine(&stubFetcher{records: records})
	if err := engine.Warm(context.Background()); err != nil {
		b.Fatalf("warm failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := engine.ResolveExact(context.Background(), "drug742 20mg"); err != nil {
			b.Fatalf("resolve failed: %v", err)
		}
	}
}
