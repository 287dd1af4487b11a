// Package config loads storefront settings from an optional YAML file
// overlaid with STOREFRONT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all storefront configuration.
type Config struct {
	// Backend selects the persistence gateway: sqlite, redis or memory.
	Backend string `yaml:"backend" env:"STOREFRONT_BACKEND"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path" env:"STOREFRONT_DB_PATH"`

	Redis RedisConfig `yaml:"redis"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"STOREFRONT_LOG_LEVEL"`

	// Seed writes sample data into empty keys on first start.
	Seed bool `yaml:"seed" env:"STOREFRONT_SEED"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"STOREFRONT_REDIS_ADDR"`
	Password string `yaml:"password" env:"STOREFRONT_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"STOREFRONT_REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"STOREFRONT_REDIS_PREFIX"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		DBPath:   "storefront.db",
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "storefront:"},
		LogLevel: "info",
		Seed:     true,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment, then
// validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays the STOREFRONT_* variables that are set.
func (c *Config) applyEnv() error {
	err := envdecode.Decode(c)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Validate rejects unknown backends and log levels, and missing settings
// the selected backend needs.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, redis or memory)", c.Backend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level. Validate has already
// rejected unknown names.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps a level name to a slog.Level. The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
