package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/core/domain"
)

func TestConfig_DefaultsAreValid(t *testing.T) {
	cfg := domain.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(1<<30), cfg.MaxCacheSizeBytes)
	assert.Equal(t, 30*24*time.Hour, cfg.MaxFileAge)
	assert.True(t, cfg.CompressionEnabled)
	assert.False(t, cfg.EncryptionEnabled)
	assert.Equal(t, int64(100<<20), cfg.MaxMemoryCacheSizeBytes)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestConfig_DefaultVolatileFieldsAreCopied(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.VolatileFields[0] = "changed"

	assert.Equal(t, "timestamp", domain.DefaultConfig().VolatileFields[0])
}

func TestConfig_DerivedLimits(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxCacheSizeBytes = 1000
	cfg.MaxMemoryCacheSizeBytes = 5000

	assert.Equal(t, int64(800), cfg.EvictionTargetBytes())
	assert.Equal(t, int64(500), cfg.MemoryAdmissionLimit())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"empty root", func(c *domain.Config) { c.RootDirectory = "" }},
		{"zero size", func(c *domain.Config) { c.MaxCacheSizeBytes = 0 }},
		{"zero age", func(c *domain.Config) { c.MaxFileAge = 0 }},
		{"negative memory", func(c *domain.Config) { c.MaxMemoryCacheSizeBytes = -1 }},
		{"admission ratio above one", func(c *domain.Config) { c.MemoryAdmissionRatio = 1.5 }},
		{"zero eviction ratio", func(c *domain.Config) { c.EvictionTargetRatio = 0 }},
		{"zero interval", func(c *domain.Config) { c.CleanupInterval = 0 }},
		{"negative compress threshold", func(c *domain.Config) { c.MinCompressBytes = -1 }},
		{"no preload workers", func(c *domain.Config) { c.PreloadConcurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestConfig_ZeroMemoryTierIsValid(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxMemoryCacheSizeBytes = 0
	require.NoError(t, cfg.Validate())
	assert.Zero(t, cfg.MemoryAdmissionLimit())
}
