package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EVDASH_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "data/Electric_Vehicle_Population_Data.csv", cfg.Dataset.DefaultPath)
	assert.True(t, cfg.Dataset.LoadOnStart)
	assert.Equal(t, 30*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, int64(64<<20), cfg.Dataset.MaxUploadBytes)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVDASH_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("EVDASH_SERVER_PORT", "9090")
	t.Setenv("EVDASH_DATASET_FETCH_TIMEOUT", "5s")
	t.Setenv("EVDASH_DATASET_LOAD_ON_START", "false")
	t.Setenv("EVDASH_LOG_FORMAT", "Console")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Dataset.FetchTimeout)
	assert.False(t, cfg.Dataset.LoadOnStart)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadPlatformPort(t *testing.T) {
	t.Setenv("EVDASH_CONFIG", "")
	t.Setenv("PORT", "7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("EVDASH_CONFIG", "")
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "evdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8181"
dataset:
  default_path: https://example.test/ev.csv
cache:
  backend: redis
  redis_addr: localhost:6379
  ttl: 1m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8181", cfg.Server.Port)
	assert.Equal(t, "https://example.test/ev.csv", cfg.Dataset.DefaultPath)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)

	t.Setenv("EVDASH_CACHE_BACKEND", "memory")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend, "env wins over the file")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: "8080", GinMode: "release"},
			Dataset: DatasetConfig{FetchTimeout: time.Second, MaxUploadBytes: 1},
			Cache:   CacheConfig{Backend: "memory"},
			Log:     LogConfig{Format: "json"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"empty port":      func(c *Config) { c.Server.Port = "" },
		"bad port":        func(c *Config) { c.Server.Port = "http" },
		"gin mode":        func(c *Config) { c.Server.GinMode = "prod" },
		"fetch timeout":   func(c *Config) { c.Dataset.FetchTimeout = 0 },
		"upload limit":    func(c *Config) { c.Dataset.MaxUploadBytes = 0 },
		"redis addr":      func(c *Config) { c.Cache.Backend = "redis" },
		"unknown backend": func(c *Config) { c.Cache.Backend = "memcached" },
		"log format":      func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
