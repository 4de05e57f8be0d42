// Package scheduler owns the corpus warmup: an eager load at startup, hourly
// retries while the load keeps failing, and staleness monitoring once loaded.
// A successfully loaded corpus is never reloaded; restarts pick up new data.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
	"github.com/snplmntn/ainay-companion-care-sub003/metrics"
)

// staleAfter is when a loaded corpus becomes old enough to mention in the
// logs. The reference data changes rarely, so this is a nudge, not an alarm.
const staleAfter = 30 * 24 * time.Hour

// Compile-time check to ensure Scheduler implements the Scheduler interface.
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler drives the engine's corpus lifecycle with injected dependencies.
type Scheduler struct {
	engine      interfaces.Warmer
	scheduler   *gocron.Scheduler
	warmTimeout time.Duration
}

func NewScheduler(engine interfaces.Warmer) *Scheduler {
	return &Scheduler{
		engine:      engine,
		scheduler:   gocron.NewScheduler(time.Local),
		warmTimeout: 10 * time.Minute,
	}
}

// Start warms the corpus once and schedules the hourly check. A failed warm
// does not fail startup: the engine retries lazily on the next query and the
// hourly job keeps retrying after that.
func (s *Scheduler) Start() error {
	if err := s.warm(); err != nil {
		logging.Error("Initial corpus load failed, serving degraded until a retry succeeds", "error", err)
	}

	_, err := s.scheduler.Every(1).Hour().Do(s.hourlyCheck)
	if err != nil {
		logging.Error("Failed to schedule hourly corpus check", "error", err)
		return fmt.Errorf("scheduling hourly corpus check: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) warm() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.warmTimeout)
	defer cancel()
	return s.engine.Warm(ctx)
}

// hourlyCheck retries a failed load, refreshes the corpus gauges, and notes
// corpus staleness.
func (s *Scheduler) hourlyCheck() {
	if !s.engine.Loaded() {
		logging.Info("Corpus still unloaded, retrying")
		if err := s.warm(); err != nil {
			logging.Error("Corpus retry failed", "error", err)
		}
		return
	}

	metrics.CorpusRecords.Set(float64(s.engine.RecordCount()))
	metrics.CorpusPairs.Set(float64(s.engine.PairCount()))
	metrics.CorpusLoadedAt.Set(float64(s.engine.LoadedAt().Unix()))

	if age := time.Since(s.engine.LoadedAt()); age > staleAfter {
		logging.Warn("Corpus was loaded long ago, restart to pick up a fresh export",
			"age_days", int(age.Hours()/24))
	}
}
