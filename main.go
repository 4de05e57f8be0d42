package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/snplmntn/ainay-companion-care-sub003/config"
	"github.com/snplmntn/ainay-companion-care-sub003/dataset"
	"github.com/snplmntn/ainay-companion-care-sub003/health"
	"github.com/snplmntn/ainay-companion-care-sub003/interactions"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
	"github.com/snplmntn/ainay-companion-care-sub003/scheduler"
	"github.com/snplmntn/ainay-companion-care-sub003/server"
)

func main() {
	loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.Init("logs", cfg.SlogLevel(), cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer logging.Close()

	client := dataset.NewClient(cfg.DatasetURL, cfg.PairsURL, cfg.FetchTimeout)
	engine := interactions.NewEngine(client)
	checker := health.NewChecker(engine)

	sched := scheduler.NewScheduler(engine)
	if err := sched.Start(); err != nil {
		logging.Error("Scheduler failed to start", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, engine, engine, checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logging.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server close error", "error", err)
	} else {
		logging.Info("Server exited gracefully")
	}

	// Let in-flight work drain before the log writer closes.
	time.Sleep(2 * time.Second)
	logging.Info("Server shutdown complete")
}

// loadDotEnv reads .env from the working directory, falling back to the
// executable's directory when the service runs from elsewhere.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}

	_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
}
