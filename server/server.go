// Package server wires the HTTP stack: routing, middleware and lifecycle.
package server

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snplmntn/ainay-companion-care-sub003/config"
	"github.com/snplmntn/ainay-companion-care-sub003/handlers"
	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
	"github.com/snplmntn/ainay-companion-care-sub003/metrics"
	"github.com/snplmntn/ainay-companion-care-sub003/validation"
)

// Server holds the HTTP server and its collaborators.
type Server struct {
	server    *http.Server
	router    *chi.Mux
	config    *config.Config
	resolver  interfaces.Resolver
	pairs     interfaces.PairChecker
	checker   interfaces.HealthChecker
	validator interfaces.InputValidator
}

// NewServer creates a configured server with all middleware and routes set up.
func NewServer(cfg *config.Config, resolver interfaces.Resolver, pairs interfaces.PairChecker, checker interfaces.HealthChecker) *Server {
	router := chi.NewRouter()

	s := &Server{
		router:    router,
		config:    cfg,
		resolver:  resolver,
		pairs:     pairs,
		checker:   checker,
		validator: validation.NewInputValidator(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Address + ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(BlockDirectAccessMiddleware)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.RequestLogger(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", handlers.ServiceInfo())
	s.router.Get("/health", handlers.HealthCheck(s.checker))
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/interactions/{drug}", handlers.ResolveDrug(s.resolver, s.validator))
		r.Post("/interactions/batch", handlers.BatchResolve(s.resolver, s.validator))
		r.Get("/search/{query}", handlers.SearchInteractions(s.resolver, s.validator))
		r.Post("/context", handlers.ContextBlock(s.resolver, s.validator))
		r.Get("/pair/{first}/{second}", handlers.CheckPair(s.pairs, s.validator))
		r.Post("/pairs/check", handlers.PairsCheck(s.pairs, s.validator))
	})
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	if s.config.Env == "dev" {
		go s.startProfilingServer()
	}

	logging.Info("Starting server", "address", s.server.Addr, "env", s.config.Env)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) startProfilingServer() {
	logging.Info("Starting pprof server on localhost:6060")
	if err := http.ListenAndServe("localhost:6060", nil); err != nil {
		logging.Error("Profiling server failed", "error", err)
	}
}

// Shutdown gracefully stops the server, forcing a close if the context
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed, forcing close", "error", err)
		return s.server.Close()
	}

	return nil
}
