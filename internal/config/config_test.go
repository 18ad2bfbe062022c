package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, "quotes.db", config.DatabasePath)
	assert.Equal(t, 5, config.SupplierBatchSize)
	assert.Equal(t, 30*time.Minute, config.InventoryCacheTTL)
	assert.Equal(t, "INFO", config.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("SUPPLIER_BATCH_SIZE", "8")
	t.Setenv("INVENTORY_CACHE_TTL", "10m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", config.Port)
	assert.Equal(t, "/tmp/test.db", config.DatabasePath)
	assert.Equal(t, 8, config.SupplierBatchSize)
	assert.Equal(t, 10*time.Minute, config.InventoryCacheTTL)
	assert.Equal(t, rate.Limit(2.5), config.RateLimit)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUPPLIER_BATCH_SIZE", "many")
	t.Setenv("INVENTORY_CACHE_TTL", "soon")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, config.SupplierBatchSize)
	assert.Equal(t, 30*time.Minute, config.InventoryCacheTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		config, err := Load()
		require.NoError(t, err)
		return config
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
		{"idle above open", func(c *Config) { c.MaxIdleConns = c.MaxOpenConns + 1 }},
		{"zero batch size", func(c *Config) { c.SupplierBatchSize = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}
