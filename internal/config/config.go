// Package config loads the service configuration from a TOML file with
// environment overrides for secrets, and watches the file for changes to
// hot-reload the reloadable subset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables overriding the corresponding file values.
// Secrets should come from the environment, not the config file.
const (
	EnvSecretKey      = "AVIARY_SECRET_KEY"
	EnvConsumerKey    = "AVIARY_CONSUMER_KEY"
	EnvConsumerSecret = "AVIARY_CONSUMER_SECRET"
	EnvDataDir        = "AVIARY_DATA_DIR"
	EnvListenAddr     = "AVIARY_LISTEN_ADDR"
)

// DefaultPath is the config file looked up when no --config flag is set.
const DefaultPath = "aviary.toml"

// Config is the full service configuration.
type Config struct {
	// ServiceName appears in the error envelope of every error response.
	ServiceName string `toml:"service_name"`
	ListenAddr  string `toml:"listen_addr"`
	DataDir     string `toml:"data_dir"`
	// SecretKey signs caller bearer tokens. When empty, the protected
	// endpoints run unauthenticated.
	SecretKey     string `toml:"secret_key"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	LogLevel      string `toml:"log_level"`

	Twitter TwitterConfig `toml:"twitter"`
	Cache   CacheConfig   `toml:"cache"`
	Ingest  IngestConfig  `toml:"ingest"`
}

// TwitterConfig holds the remote search API settings.
type TwitterConfig struct {
	BaseURL        string `toml:"base_url"`
	ConsumerKey    string `toml:"consumer_key"`
	ConsumerSecret string `toml:"consumer_secret"`
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	// Backend is "memory" or "none".
	Backend    string `toml:"backend"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// IngestConfig holds the ingestion coordinator knobs.
type IngestConfig struct {
	// OnDuplicate is "halt" or "skip".
	OnDuplicate string `toml:"on_duplicate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServiceName:   "aviary",
		ListenAddr:    ":8080",
		TokenTTLHours: 24,
		LogLevel:      "info",
		Twitter: TwitterConfig{
			BaseURL: "https://api.twitter.com",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLSeconds: 60,
		},
		Ingest: IngestConfig{
			OnDuplicate: "halt",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment are a valid configuration.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSecretKey); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv(EnvConsumerKey); v != "" {
		c.Twitter.ConsumerKey = v
	}
	if v := os.Getenv(EnvConsumerSecret); v != "" {
		c.Twitter.ConsumerSecret = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
}

// TokenTTL returns the bearer token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// CacheTTL returns the response cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
