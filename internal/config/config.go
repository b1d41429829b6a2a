// Package config defines spinlens configuration and its defaults.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Validation failures wrap ErrInvalidConfig; loading failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/suggest"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Source is the upstream feed used by GET /report. Optional.
	Source SourceConfig `koanf:"source"`

	// Mapping locates spin fields inside upstream records.
	Mapping model.FieldMapping `koanf:"mapping"`

	// Suggest holds the suggestion defaults.
	Suggest SuggestConfig `koanf:"suggest"`
}

// SourceConfig describes the upstream feed.
type SourceConfig struct {
	URL          string            `koanf:"url"`
	Headers      map[string]string `koanf:"headers"`
	Params       map[string]string `koanf:"params"`
	RootListPath string            `koanf:"root_list_path"`
	TimeoutMS    int               `koanf:"timeout_ms"`
}

// Timeout returns the fetch timeout as a duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Configured reports whether an upstream URL is set.
func (s SourceConfig) Configured() bool { return s.URL != "" }

// SuggestConfig holds the suggestion defaults.
type SuggestConfig struct {
	Strategy string  `koanf:"strategy"`
	K        int     `koanf:"k"`
	Decay    float64 `koanf:"decay"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		CORSAllowedOrigins: []string{"*"},
		Source: SourceConfig{
			RootListPath: "results",
			TimeoutMS:    25_000,
		},
		Mapping: model.DefaultFieldMapping(),
		Suggest: SuggestConfig{
			Strategy: string(suggest.DefaultStrategy),
			K:        suggest.DefaultK,
			Decay:    suggest.DefaultDecay,
		},
	}
}

// Validate checks the values that the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Mapping.Number == "":
		return fmt.Errorf("%w: mapping.number must not be empty", ErrInvalidConfig)
	case c.Suggest.K < 1:
		return fmt.Errorf("%w: suggest.k must be at least 1", ErrInvalidConfig)
	case !(c.Suggest.Decay > 0 && c.Suggest.Decay < 1):
		return fmt.Errorf("%w: suggest.decay must be in (0,1)", ErrInvalidConfig)
	case c.Source.TimeoutMS < 0:
		return fmt.Errorf("%w: source.timeout_ms must not be negative", ErrInvalidConfig)
	}
	if !suggest.Strategy(strings.ToLower(strings.TrimSpace(c.Suggest.Strategy))).Known() {
		return fmt.Errorf("%w: unknown suggest.strategy %q", ErrInvalidConfig, c.Suggest.Strategy)
	}
	return nil
}
