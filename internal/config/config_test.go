package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

		require.NoError(t, err)
		assert.Equal(t, "aviary", cfg.ServiceName)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, "https://api.twitter.com", cfg.Twitter.BaseURL)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, "halt", cfg.Ingest.OnDuplicate)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
		assert.Equal(t, time.Minute, cfg.CacheTTL())
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aviary.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
service_name = "birdcage"
listen_addr = ":9090"
log_level = "debug"

[twitter]
base_url = "http://localhost:8089"

[cache]
backend = "none"
ttl_seconds = 5

[ingest]
on_duplicate = "skip"
`), 0600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "birdcage", cfg.ServiceName)
		assert.Equal(t, ":9090", cfg.ListenAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "http://localhost:8089", cfg.Twitter.BaseURL)
		assert.Equal(t, "none", cfg.Cache.Backend)
		assert.Equal(t, 5*time.Second, cfg.CacheTTL())
		assert.Equal(t, "skip", cfg.Ingest.OnDuplicate)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aviary.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
secret_key = "from-file"

[twitter]
consumer_key = "file-key"
`), 0600))

		t.Setenv(EnvSecretKey, "from-env")
		t.Setenv(EnvConsumerKey, "env-key")
		t.Setenv(EnvConsumerSecret, "env-secret")
		t.Setenv(EnvListenAddr, ":7070")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.SecretKey)
		assert.Equal(t, "env-key", cfg.Twitter.ConsumerKey)
		assert.Equal(t, "env-secret", cfg.Twitter.ConsumerSecret)
		assert.Equal(t, ":7070", cfg.ListenAddr)
	})

	t.Run("unparseable file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aviary.toml")
		require.NoError(t, os.WriteFile(path, []byte("not toml {{{"), 0600))

		_, err := Load(path)

		require.Error(t, err)
	})
}
