// Package config loads and validates the service configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogRetentionWeeks int   // weeks to keep log files
	MaxLogFileSize    int64 // maximum log file size in bytes
	MaxRequestBody    int64 // maximum request body size in bytes
	MaxHeaderSize     int64 // maximum header size in bytes

	DatasetURL   string        // interaction corpus location, required
	PairsURL     string        // drug-drug pair corpus location, optional
	FetchTimeout time.Duration // per-fetch HTTP timeout
}

// Load reads and validates every setting. DATASET_URL has no default: the
// service is useless without a corpus to load.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              envOr("PORT", "8000"),
		Address:           envOr("ADDRESS", "127.0.0.1"),
		Env:               strings.ToLower(envOr("ENV", "dev")),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		LogRetentionWeeks: envIntOr("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    envInt64Or("MAX_LOG_FILE_SIZE", 100<<20),
		MaxRequestBody:    envInt64Or("MAX_REQUEST_BODY", 1<<20),
		MaxHeaderSize:     envInt64Or("MAX_HEADER_SIZE", 1<<20),
		DatasetURL:        os.Getenv("DATASET_URL"),
		PairsURL:          os.Getenv("PAIRS_URL"),
		FetchTimeout:      time.Duration(envIntOr("FETCH_TIMEOUT_SECONDS", 300)) * time.Second,
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SlogLevel translates the configured log level for slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// validateConfig runs every field check and reports the first failure,
// prefixed with the variable it belongs to.
func validateConfig(cfg *Config) error {
	checks := []struct {
		name string
		err  error
	}{
		{"PORT", validatePort(cfg.Port)},
		{"ADDRESS", validateAddress(cfg.Address)},
		{"ENV", validateEnv(cfg.Env)},
		{"LOG_LEVEL", validateLogLevel(cfg.LogLevel)},
		{"MAX_REQUEST_BODY", validateByteSize("MAX_REQUEST_BODY", cfg.MaxRequestBody, 1, 100<<20)},
		{"MAX_HEADER_SIZE", validateByteSize("MAX_HEADER_SIZE", cfg.MaxHeaderSize, 1, 100<<20)},
		{"LOG_RETENTION_WEEKS", validateRetention(cfg.LogRetentionWeeks)},
		{"MAX_LOG_FILE_SIZE", validateByteSize("MAX_LOG_FILE_SIZE", cfg.MaxLogFileSize, 1<<20, 1<<30)},
		{"DATASET_URL", validateCorpusURL(cfg.DatasetURL, false)},
		{"PAIRS_URL", validateCorpusURL(cfg.PairsURL, true)},
		{"FETCH_TIMEOUT_SECONDS", validateFetchTimeout(cfg.FetchTimeout)},
	}

	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("invalid %s: %w", c.name, c.err)
		}
	}
	return nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	switch {
	case n < 1 || n > 65535:
		return fmt.Errorf("PORT must be between 1 and 65535")
	case n < 1024:
		return fmt.Errorf("PORT %d is privileged, bind above 1023", n)
	}
	return nil
}

// validateAddress restricts binds to loopback, private and unspecified
// addresses; the service is meant to sit behind a reverse proxy.
func validateAddress(address string) error {
	if address == "localhost" {
		return nil
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got %s", address)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return nil
	}
	return fmt.Errorf("ADDRESS %s is a public IP, bind to a loopback or private address", address)
}

func validateEnv(env string) error {
	switch strings.ToLower(env) {
	case "dev", "staging", "prod", "test":
		return nil
	}
	return fmt.Errorf("ENV must be one of dev, staging, prod or test, got %s", env)
}

func validateLogLevel(logLevel string) error {
	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn or error, got %s", logLevel)
}

func validateByteSize(name string, size, min, max int64) error {
	if size < min || size > max {
		return fmt.Errorf("%s must be between %d and %d bytes, got %d", name, min, max, size)
	}
	return nil
}

func validateRetention(weeks int) error {
	if weeks < 1 || weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be between 1 and 52, got %d", weeks)
	}
	return nil
}

// validateCorpusURL accepts http(s) URLs with a host. Optional URLs may be
// empty; the required corpus may not.
func validateCorpusURL(raw string, optional bool) error {
	if raw == "" {
		if optional {
			return nil
		}
		return fmt.Errorf("DATASET_URL must be set to the interaction corpus location")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", raw)
	}
	return nil
}

func validateFetchTimeout(d time.Duration) error {
	if d < 5*time.Second {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS is too small (min 5s), got %s", d)
	}
	if d > 30*time.Minute {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS is too large (max 30m), got %s", d)
	}
	return nil
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envIntOr(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Or(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvVars lists every environment variable the service reads.
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"DATASET_URL",
		"PAIRS_URL",
		"FETCH_TIMEOUT_SECONDS",
	}
}

// ValidateAllEnvVars checks that the variables without defaults are set.
func ValidateAllEnvVars() error {
	var missing []string
	for _, name := range []string{"PORT", "DATASET_URL"} {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %v", missing)
	}
	return nil
}
