// Package config loads the engine configuration from a YAML file, with .env
// files and PAGEGEN_* environment variables layered on top. Environment
// always wins over the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	// Store configures the two artifact store regions.
	Store StoreConfig `yaml:"store"`

	// Locales lists the supported locale tags; the first is the default.
	Locales []string `yaml:"locales"`

	// CachePolicy is "respect_schedule" (default) or "always_regenerate".
	CachePolicy string `yaml:"cache_policy"`

	// SweepInterval is how often the background sweeper scans for due
	// revalidation schedules. Zero disables the sweeper.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// NATS configures optional page event publishing. An empty URL disables it.
	NATS NATSConfig `yaml:"nats"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects the physical stores backing the two regions.
type StoreConfig struct {
	// Backend is "fs" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// ImmutablePath is the build-output region: directory for fs, database
	// file for sqlite.
	ImmutablePath string `yaml:"immutable_path"`

	// MutablePath is the regeneration region.
	MutablePath string `yaml:"mutable_path"`
}

// NATSConfig configures the page event publisher.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error. Default info.
	Level string `yaml:"level"`

	// Format is text or json. Default text.
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:       "fs",
			ImmutablePath: "dist/immutable",
			MutablePath:   "dist/mutable",
		},
		Locales:       []string{"en-US"},
		CachePolicy:   "respect_schedule",
		SweepInterval: 0,
		Logging:       LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file at path (optional; empty path or a
// missing file yields defaults), layers .env files, and applies PAGEGEN_*
// environment overrides. The result is validated.
func Load(path string) (Config, error) {
	// Missing .env files are the normal case and not an error.
	_ = godotenv.Load(".env", ".env.local")

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays PAGEGEN_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PAGEGEN_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("PAGEGEN_STORE_IMMUTABLE_PATH"); v != "" {
		cfg.Store.ImmutablePath = v
	}
	if v := os.Getenv("PAGEGEN_STORE_MUTABLE_PATH"); v != "" {
		cfg.Store.MutablePath = v
	}
	if v := os.Getenv("PAGEGEN_LOCALES"); v != "" {
		cfg.Locales = splitList(v)
	}
	if v := os.Getenv("PAGEGEN_CACHE_POLICY"); v != "" {
		cfg.CachePolicy = v
	}
	if v := os.Getenv("PAGEGEN_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SweepInterval = d
		}
	}
	if v := os.Getenv("PAGEGEN_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("PAGEGEN_NATS_SUBJECT_PREFIX"); v != "" {
		cfg.NATS.SubjectPrefix = v
	}
	if v := os.Getenv("PAGEGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PAGEGEN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values the engine cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (expected fs or sqlite)", c.Store.Backend)
	}
	if c.Store.ImmutablePath == "" || c.Store.MutablePath == "" {
		return fmt.Errorf("both store paths must be set")
	}
	if c.Store.ImmutablePath == c.Store.MutablePath {
		return fmt.Errorf("immutable and mutable store paths must differ")
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale is required")
	}
	switch c.CachePolicy {
	case "respect_schedule", "always_regenerate":
	default:
		return fmt.Errorf("unknown cache policy %q", c.CachePolicy)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("sweep interval must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// DefaultLocale returns the first configured locale.
func (c Config) DefaultLocale() string {
	return c.Locales[0]
}
