// Package config holds the runtime configuration of the watcher,
// sourced from environment variables with optional .env loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	// Telegram delivery credentials.
	TelegramToken  string
	TelegramChatID string

	// Poll cadences per source kind.
	APIInterval time.Duration
	CMSInterval time.Duration

	// PostgresDSN selects the durable seen-listings store. Empty means
	// the caller has to opt into the in-memory store explicitly.
	PostgresDSN string

	// Exchanges enables a subset of the registered source adapters.
	Exchanges []string

	// MetricsAddr is the listen address of the metrics/health server.
	// Empty disables the server.
	MetricsAddr string
}

// FatalError is a configuration problem the process cannot start with.
// It is the only error class the watcher terminates on.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "config: " + e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// FromEnv builds the configuration from the process environment. When
// envFile is non-empty it is loaded first; variables already present in
// the environment win, matching godotenv semantics. Validation failures
// come back as *FatalError.
func FromEnv(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, &FatalError{Err: fmt.Errorf("load %s: %w", envFile, err)}
		}
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TG_TOKEN"),
		TelegramChatID: firstEnv("TG_CHAT_ID", "CHAT_ID"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
	}

	var err error
	if cfg.APIInterval, err = secondsEnv("POLL_INTERVAL_API"); err != nil {
		return nil, &FatalError{Err: err}
	}
	if cfg.CMSInterval, err = secondsEnv("POLL_INTERVAL_CMS"); err != nil {
		return nil, &FatalError{Err: err}
	}
	if raw := os.Getenv("EXCHANGES"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Exchanges = append(cfg.Exchanges, name)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &FatalError{Err: err}
	}
	return cfg, nil
}

// firstEnv returns the first non-empty variable among names.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// secondsEnv parses an integer-seconds variable into a duration.
// An unset or empty variable yields zero, leaving the default in place.
func secondsEnv(name string) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer number of seconds: %q", name, raw)
	}
	return time.Duration(secs) * time.Second, nil
}
