// Package config loads layoutd configuration.
//
// Configuration comes from three layers, lowest precedence first: built-in
// defaults, an optional TOML file, and LAYOUTD_* environment variables. A
// .env file in the working directory is loaded into the environment before
// the variables are read, so local development needs no shell setup.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/layoutd/layoutd/pkg/errors"
)

// Cache backend names accepted by [Config.Cache].
const (
	CacheBackendNone  = "none"
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Config is the complete layoutd configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `toml:"port"`

	// Secret is the shared API key. Empty disables authentication.
	Secret string `toml:"secret"`
}

// EngineConfig configures the external layout engine.
type EngineConfig struct {
	// URL is the layout endpoint of the engine service.
	URL string `toml:"url"`

	// TimeoutMS is the soft deadline for one layout call, in milliseconds.
	TimeoutMS int `toml:"timeout_ms"`
}

// CacheConfig configures layout result caching.
type CacheConfig struct {
	// Backend selects the cache implementation: none, file, or redis.
	Backend string `toml:"backend"`

	// Dir is the storage directory for the file backend.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword authenticates against redis. Empty means no auth.
	RedisPassword string `toml:"redis_password"`

	// RedisDB selects the redis database number.
	RedisDB int `toml:"redis_db"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Engine: EngineConfig{
			URL:       "http://localhost:8111/layout",
			TimeoutMS: 8000,
		},
		Cache: CacheConfig{
			Backend: CacheBackendNone,
			Dir:     ".layoutd-cache",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (skipped when path is empty or missing), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse config file")
			}
		}
	}

	// Optional .env, then environment overrides on top of file values.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout returns the engine deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Engine.TimeoutMS) * time.Millisecond
}

// applyEnv overrides config values from LAYOUTD_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Server.Secret, "LAYOUTD_SECRET")
	setInt(&c.Server.Port, "LAYOUTD_PORT")
	setString(&c.Engine.URL, "LAYOUTD_ENGINE_URL")
	setInt(&c.Engine.TimeoutMS, "LAYOUTD_TIMEOUT_MS")
	setString(&c.Cache.Backend, "LAYOUTD_CACHE_BACKEND")
	setString(&c.Cache.Dir, "LAYOUTD_CACHE_DIR")
	setString(&c.Cache.RedisAddr, "LAYOUTD_REDIS_ADDR")
	setString(&c.Cache.RedisPassword, "LAYOUTD_REDIS_PASSWORD")
	setInt(&c.Cache.RedisDB, "LAYOUTD_REDIS_DB")
	setString(&c.Log.Level, "LAYOUTD_LOG_LEVEL")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInternal, "invalid port %d", c.Server.Port)
	}
	if c.Engine.TimeoutMS <= 0 {
		return errors.New(errors.ErrCodeInternal, "invalid timeout_ms %d", c.Engine.TimeoutMS)
	}
	switch c.Cache.Backend {
	case CacheBackendNone, CacheBackendFile, CacheBackendRedis:
	default:
		return errors.New(errors.ErrCodeInternal, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
