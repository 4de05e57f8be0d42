package logging

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// recorderPool reuses recorders across requests; the recorder itself is the
// only per-request allocation this middleware would otherwise make.
var recorderPool = sync.Pool{
	New: func() any {
		return &statusRecorder{status: http.StatusOK}
	},
}

// RequestLogger logs one structured line per request. Health and metrics
// probes are skipped, they would drown everything else.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := recorderPool.Get().(*statusRecorder)
			rec.ResponseWriter = w
			rec.status = http.StatusOK
			rec.written = 0

			next.ServeHTTP(rec, r)

			status, written := rec.status, rec.written
			recorderPool.Put(rec)

			fields := make([]slog.Attr, 0, 9)
			fields = append(fields,
				slog.String("request_id", requestID(r)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if q := r.URL.RawQuery; q != "" {
				fields = append(fields, slog.String("query", q))
			}
			fields = append(fields,
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int("status_code", status),
				slog.Int("bytes_written", written),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request", fields...)
		})
	}
}

func isProbe(path string) bool {
	return path == "/health" || path == "/metrics"
}

func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// statusRecorder captures status code and bytes written.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.written += n
	return n, err
}
