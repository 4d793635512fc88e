package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("CLIENT_ID", "laptop")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, defaultServerAddress, cfg.ServerAddress)
	assert.Equal(t, "laptop", cfg.ClientID)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
	assert.True(t, cfg.IsLocal())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SERVER_ADDRESS", "sync.example.ma")
	t.Setenv("ENABLE_TLS", "true")
	t.Setenv("DATA_PATH", "/tmp/custom.db")
	t.Setenv("SYNC_MAX_RETRIES", "3")
	t.Setenv("SYNC_RETRY_DELAY", "250ms")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://sync.example.ma", cfg.BaseURL())
	assert.Equal(t, "/tmp/custom.db", cfg.DataPath)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.True(t, cfg.IsProd())
}

func TestLoad_RejectsNegativeRetries(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SYNC_MAX_RETRIES", "-1")

	_, err := Load(viper.New())
	assert.Error(t, err)
}
