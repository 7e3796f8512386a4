package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "memory",
	})
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []uint64{1}, cfg.MemoryEventIDs)
	assert.Equal(t, "logs/lodging-audit.log", cfg.AuditLogPath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.TTL)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Cache.MethodSet())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromRequiresSecretAndDatabase(t *testing.T) {
	_, err := LoadFrom(map[string]string{"STORE_DRIVER": "memory"})
	assert.Error(t, err)

	_, err = LoadFrom(map[string]string{"JWT_SECRET": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	_, err = LoadFrom(map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "postgres"})
	assert.Error(t, err)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"APP_ENV":                 "production",
		"JWT_SECRET":              "x",
		"DB_USER":                 "lodging",
		"DB_NAME":                 "lodging",
		"REDIS_HOST":              "cache",
		"REDIS_PORT":              "6380",
		"RATE_LIMIT_BURST":        "5",
		"RATE_LIMIT_REFILL_EVERY": "2s",
		"RATE_LIMIT_TTL":          "1s",
		"CACHE_METHODS":           "get, head",
		"MEMORY_EVENT_IDS":        "4,5",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "cache:6380", cfg.Redis.Address())
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.TTL)
	assert.InDelta(t, 0.5, cfg.RateLimit.PerSecond(), 1e-9)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Cache.MethodSet())
	assert.Equal(t, []uint64{4, 5}, cfg.MemoryEventIDs)
}
