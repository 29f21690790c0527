package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. EVDASH_SERVER_PORT.
const EnvPrefix = "EVDASH"

// Config holds runtime configuration resolved from defaults, an optional YAML
// file and the environment.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Dataset DatasetConfig `mapstructure:"dataset" yaml:"dataset"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port" yaml:"port"`
	GinMode        string `mapstructure:"gin_mode" yaml:"gin_mode"`
	AllowedOrigins string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type DatasetConfig struct {
	DefaultPath    string        `mapstructure:"default_path" yaml:"default_path"`
	LoadOnStart    bool          `mapstructure:"load_on_start" yaml:"load_on_start"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

type CacheConfig struct {
	Backend       string        `mapstructure:"backend" yaml:"backend"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries" yaml:"max_entries"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load resolves configuration. Precedence: env > config file > defaults.
// cfgFile falls back to $EVDASH_CONFIG; with neither set no file is read.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// PORT, GIN_MODE and ALLOWED_ORIGINS are accepted unprefixed too.
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.gin_mode", EnvPrefix+"_SERVER_GIN_MODE", "GIN_MODE")
	_ = v.BindEnv("server.allowed_origins", EnvPrefix+"_SERVER_ALLOWED_ORIGINS", "ALLOWED_ORIGINS")

	if cfgFile == "" {
		cfgFile = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.allowed_origins", "")

	v.SetDefault("dataset.default_path", "data/Electric_Vehicle_Population_Data.csv")
	v.SetDefault("dataset.load_on_start", true)
	v.SetDefault("dataset.fetch_timeout", "30s")
	v.SetDefault("dataset.max_upload_bytes", int64(64<<20))

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c *Config) normalize() {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.Server.GinMode = strings.ToLower(strings.TrimSpace(c.Server.GinMode))
	c.Dataset.DefaultPath = strings.TrimSpace(c.Dataset.DefaultPath)
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("server.port %q is not a valid port", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode %q must be debug, release or test", c.Server.GinMode)
	}
	if c.Dataset.FetchTimeout <= 0 {
		return errors.New("dataset.fetch_timeout must be positive")
	}
	if c.Dataset.MaxUploadBytes <= 0 {
		return errors.New("dataset.max_upload_bytes must be positive")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q must be memory or redis", c.Cache.Backend)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	return nil
}
