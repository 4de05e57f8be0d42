// Package health reports service readiness for the /health endpoint.
package health

import (
	"math"
	"net/http"
	"runtime"
	"time"

	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
)

// CheckerImpl implements interfaces.HealthChecker over the engine's corpus
// introspection.
type CheckerImpl struct {
	engine    interfaces.Warmer
	startedAt time.Time
}

func NewChecker(engine interfaces.Warmer) interfaces.HealthChecker {
	return &CheckerImpl{
		engine:    engine,
		startedAt: time.Now(),
	}
}

// HealthCheck reports "unavailable" with a 503 until the corpus loads. The
// corpus is a static reference dataset, so once loaded the service stays
// healthy regardless of age; staleness is the scheduler's business.
func (h *CheckerImpl) HealthCheck() (status string, details map[string]any, httpStatus int) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	details = map[string]any{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  math.Round(float64(m.HeapAlloc)/1024/1024*10) / 10,
	}

	if !h.engine.Loaded() {
		details["records"] = 0
		details["pairs"] = 0
		if lastErr := h.engine.LastLoadError(); lastErr != "" {
			details["last_load_error"] = lastErr
		}
		return "unavailable", details, http.StatusServiceUnavailable
	}

	loadedAt := h.engine.LoadedAt()
	details["records"] = h.engine.RecordCount()
	details["pairs"] = h.engine.PairCount()
	details["loaded_at"] = loadedAt.Format(time.RFC3339)
	details["corpus_age_hours"] = math.Round(time.Since(loadedAt).Hours()*10) / 10

	return "healthy", details, http.StatusOK
}

var _ interfaces.HealthChecker = (*CheckerImpl)(nil)
