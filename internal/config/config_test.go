package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
backend: redis
redis:
  addr: cache:6379
  db: 2
  prefix: "shop:"
log_level: debug
seed: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "shop:", cfg.Redis.Prefix)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.Seed)
	assert.Equal(t, "storefront.db", cfg.DBPath, "unset fields keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend: sqlite\ndb_path: file.db\n")
	t.Setenv("STOREFRONT_DB_PATH", "env.db")
	t.Setenv("STOREFRONT_SEED", "false")
	t.Setenv("STOREFRONT_REDIS_PREFIX", "env:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "env:", cfg.Redis.Prefix)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "backend: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory", func(c *Config) { c.Backend = "memory"; c.DBPath = "" }, ""},
		{"backend case", func(c *Config) { c.Backend = " SQLite " }, ""},
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }, "unknown backend"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "db_path is required"},
		{"redis without addr", func(c *Config) { c.Backend = "redis"; c.Redis.Addr = "" }, "redis.addr is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}
