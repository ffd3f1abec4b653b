package cognee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 300*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 50, cfg.MaxIdleConnections)
	assert.Equal(t, 100, cfg.MaxConnections)
	assert.True(t, cfg.EnableHTTP2)
	assert.True(t, cfg.EnableCompression)
	assert.True(t, cfg.EnableCache)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, int64(1<<20), cfg.StreamingThreshold)
	assert.Equal(t, int64(50<<20), cfg.StreamingWarnThreshold)
	assert.True(t, cfg.AdaptiveConcurrency)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.APIURL = "http://localhost:8000"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			"missing APIURL",
			func(c *Config) { c.APIURL = "" },
			"APIURL is required",
		},
		{
			"URL without scheme",
			func(c *Config) { c.APIURL = "localhost:8000" },
			"must start with http",
		},
		{
			"zero timeout",
			func(c *Config) { c.Timeout = 0 },
			"Timeout must be positive",
		},
		{
			"zero connect timeout",
			func(c *Config) { c.ConnectTimeout = 0 },
			"ConnectTimeout must be positive",
		},
		{
			"zero retries",
			func(c *Config) { c.MaxRetries = 0 },
			"MaxRetries must be at least 1",
		},
		{
			"negative retry delay",
			func(c *Config) { c.RetryDelay = -time.Second },
			"RetryDelay must not be negative",
		},
		{
			"idle pool larger than total pool",
			func(c *Config) { c.MaxIdleConnections = 200; c.MaxConnections = 100 },
			"must not exceed MaxConnections",
		},
		{
			"cache enabled without TTL",
			func(c *Config) { c.EnableCache = true; c.CacheTTL = 0 },
			"CacheTTL must be positive",
		},
		{
			"warn threshold below streaming threshold",
			func(c *Config) { c.StreamingThreshold = 10 << 20; c.StreamingWarnThreshold = 1 << 20 },
			"must not be below StreamingThreshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("zero retry delay is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.RetryDelay = 0
		require.NoError(t, cfg.Validate())
	})

	t.Run("cache TTL ignored when cache disabled", func(t *testing.T) {
		cfg := valid()
		cfg.EnableCache = false
		cfg.CacheTTL = 0
		require.NoError(t, cfg.Validate())
	})
}
