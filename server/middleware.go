package server

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"github.com/snplmntn/ainay-companion-care-sub003/config"
	"github.com/snplmntn/ainay-companion-care-sub003/handlers"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
	"github.com/snplmntn/ainay-companion-care-sub003/metrics"
)

// RealIPMiddleware rewrites RemoteAddr to the original client address when a
// proxy supplied X-Forwarded-For. The first entry is the client, the rest are
// intermediate hops.
func RealIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			r.RemoteAddr = strings.TrimSpace(first)
		}
		next.ServeHTTP(w, r)
	})
}

// BlockDirectAccessMiddleware rejects requests that did not come through the
// reverse proxy. Localhost stays open for development.
func BlockDirectAccessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied := r.Header.Get("X-Real-IP") != "" || r.Header.Get("X-Forwarded-For") != ""
		if proxied || isLoopbackAddr(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}

		logging.Warn("Direct access blocked",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent())
		http.Error(w, "Direct access not allowed", http.StatusForbidden)
	})
}

func isLoopbackAddr(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	switch host {
	case "127.0.0.1", "::1", "localhost":
		return true
	}
	return false
}

// RequestSizeMiddleware limits the size of request headers and body. The
// batch endpoints accept JSON bodies, so the body cap actually matters here.
func RequestSizeMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get("Content-Length"); raw != "" {
				declared, err := strconv.ParseInt(raw, 10, 64)
				if err == nil && declared > cfg.MaxRequestBody {
					logging.Warn("Request body too large",
						"content_length", declared,
						"limit", cfg.MaxRequestBody,
						"remote_addr", r.RemoteAddr)
					handlers.RespondWithError(w, http.StatusRequestEntityTooLarge,
						fmt.Sprintf("Request body too large, limit is %d bytes", cfg.MaxRequestBody))
					return
				}
			}

			if size := headerBytes(r.Header); size > cfg.MaxHeaderSize {
				logging.Warn("Request headers too large",
					"header_size", size,
					"limit", cfg.MaxHeaderSize,
					"remote_addr", r.RemoteAddr)
				handlers.RespondWithError(w, http.StatusRequestHeaderFieldsTooLarge,
					fmt.Sprintf("Request headers too large, limit is %d bytes", cfg.MaxHeaderSize))
				return
			}

			// Content-Length can lie, MaxBytesReader cannot.
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxRequestBody)
			next.ServeHTTP(w, r)
		})
	}
}

func headerBytes(h http.Header) int64 {
	var n int64
	for name, values := range h {
		n += int64(len(name))
		for _, v := range values {
			n += int64(len(v))
		}
	}
	return n
}

const (
	bucketCapacity  = 1000 // tokens per client
	tokenRefillRate = 3    // tokens per second
)

// RateLimiter hands out one token bucket per client address.
type RateLimiter struct {
	clients map[string]*ratelimit.Bucket
	mu      sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{clients: make(map[string]*ratelimit.Bucket)}
}

func (rl *RateLimiter) getBucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	b := rl.clients[clientIP]
	rl.mu.RUnlock()
	if b != nil {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b = rl.clients[clientIP]; b == nil {
		b = ratelimit.NewBucketWithRate(tokenRefillRate, bucketCapacity)
		rl.clients[clientIP] = b
		metrics.LimiterBuckets.Set(float64(len(rl.clients)))
	}
	return b
}

func (rl *RateLimiter) startSweeper() {
	go func() {
		for range time.Tick(30 * time.Minute) {
			rl.sweep()
		}
	}()
}

// sweep drops clients whose buckets refilled completely, i.e. idle ones.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.clients {
		if b.Available() == b.Capacity() {
			delete(rl.clients, ip)
		}
	}
	metrics.LimiterBuckets.Set(float64(len(rl.clients)))
}

var globalRateLimiter = NewRateLimiter()

func init() {
	globalRateLimiter.startSweeper()
}

// tokenCost prices each route. Batch work costs more than single lookups;
// operational endpoints stay nearly free.
func tokenCost(r *http.Request) int64 {
	p := r.URL.Path

	switch p {
	case "/":
		return 1
	case "/health", "/metrics":
		return 5
	case "/v1/interactions/batch", "/v1/context":
		return 100
	case "/v1/pairs/check":
		return 60
	}

	switch {
	case strings.HasPrefix(p, "/v1/interactions/"):
		return 50
	case strings.HasPrefix(p, "/v1/search/"), strings.HasPrefix(p, "/v1/pair/"):
		return 30
	}

	return 20
}

// RateLimitHandler enforces the per-client token budget.
func RateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := globalRateLimiter.getBucket(r.RemoteAddr)
		cost := tokenCost(r)

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(bucketCapacity))
		h.Set("X-RateLimit-Rate", strconv.Itoa(tokenRefillRate))

		if bucket.TakeAvailable(cost) < cost {
			h.Set("X-RateLimit-Remaining", "0")
			h.Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded, slow down and retry later.", http.StatusTooManyRequests)
			return
		}

		h.Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
		next.ServeHTTP(w, r)
	})
}
