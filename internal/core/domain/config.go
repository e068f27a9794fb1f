package domain

import (
	"errors"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultRootDirectory is where entry files and the index live unless configured otherwise.
	DefaultRootDirectory = ".assetcache"
	// DefaultMaxCacheSizeBytes is the disk budget (1 GiB).
	DefaultMaxCacheSizeBytes int64 = 1 << 30
	// DefaultMaxFileAge is the age budget (30 days).
	DefaultMaxFileAge = 30 * 24 * time.Hour
	// DefaultMaxMemoryCacheSizeBytes is the memory tier budget (100 MiB).
	DefaultMaxMemoryCacheSizeBytes int64 = 100 << 20
	// DefaultMemoryAdmissionRatio caps a single memory entry at this fraction of the memory budget.
	DefaultMemoryAdmissionRatio = 0.1
	// DefaultEvictionTargetRatio is the fraction of the disk budget size eviction shrinks to.
	DefaultEvictionTargetRatio = 0.8
	// DefaultCleanupInterval is the period of the background sweep.
	DefaultCleanupInterval = time.Hour
	// DefaultMinCompressBytes is the smallest serialized payload worth compressing.
	DefaultMinCompressBytes = 1024
	// DefaultPreloadConcurrency bounds concurrent decodes during preload.
	DefaultPreloadConcurrency = 4
)

// DefaultVolatileFields lists the top-level config fields that never affect generated output.
var DefaultVolatileFields = []string{"timestamp", "randomSeed", "sessionId"}

// Config holds the recognized cache options.
type Config struct {
	RootDirectory           string        `yaml:"root_directory"`
	MaxCacheSizeBytes       int64         `yaml:"max_cache_size_bytes"`
	MaxFileAge              time.Duration `yaml:"max_file_age"`
	CompressionEnabled      bool          `yaml:"compression_enabled"`
	EncryptionEnabled       bool          `yaml:"encryption_enabled"`
	MaxMemoryCacheSizeBytes int64         `yaml:"max_memory_cache_size_bytes"`
	MemoryAdmissionRatio    float64       `yaml:"memory_admission_ratio"`
	EvictionTargetRatio     float64       `yaml:"eviction_target_ratio"`
	CleanupInterval         time.Duration `yaml:"cleanup_interval"`
	MinCompressBytes        int           `yaml:"min_compress_bytes"`
	VolatileFields          []string      `yaml:"volatile_fields"`
	PreloadConcurrency      int           `yaml:"preload_concurrency"`
	LogLevel                string        `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RootDirectory:           DefaultRootDirectory,
		MaxCacheSizeBytes:       DefaultMaxCacheSizeBytes,
		MaxFileAge:              DefaultMaxFileAge,
		CompressionEnabled:      true,
		EncryptionEnabled:       false,
		MaxMemoryCacheSizeBytes: DefaultMaxMemoryCacheSizeBytes,
		MemoryAdmissionRatio:    DefaultMemoryAdmissionRatio,
		EvictionTargetRatio:     DefaultEvictionTargetRatio,
		CleanupInterval:         DefaultCleanupInterval,
		MinCompressBytes:        DefaultMinCompressBytes,
		VolatileFields:          append([]string(nil), DefaultVolatileFields...),
		PreloadConcurrency:      DefaultPreloadConcurrency,
		LogLevel:                "info",
	}
}

// Validate checks that every option is usable.
func (c Config) Validate() error {
	switch {
	case c.RootDirectory == "":
		return invalidField("root_directory", "must not be empty")
	case c.MaxCacheSizeBytes <= 0:
		return invalidField("max_cache_size_bytes", "must be positive")
	case c.MaxFileAge <= 0:
		return invalidField("max_file_age", "must be positive")
	case c.MaxMemoryCacheSizeBytes < 0:
		return invalidField("max_memory_cache_size_bytes", "must not be negative")
	case c.MemoryAdmissionRatio <= 0 || c.MemoryAdmissionRatio > 1:
		return invalidField("memory_admission_ratio", "must be in (0, 1]")
	case c.EvictionTargetRatio <= 0 || c.EvictionTargetRatio > 1:
		return invalidField("eviction_target_ratio", "must be in (0, 1]")
	case c.CleanupInterval <= 0:
		return invalidField("cleanup_interval", "must be positive")
	case c.MinCompressBytes < 0:
		return invalidField("min_compress_bytes", "must not be negative")
	case c.PreloadConcurrency < 1:
		return invalidField("preload_concurrency", "must be at least 1")
	}
	return nil
}

// EvictionTargetBytes is the total size that size eviction shrinks the disk tier to.
func (c Config) EvictionTargetBytes() int64 {
	return int64(float64(c.MaxCacheSizeBytes) * c.EvictionTargetRatio)
}

// MemoryAdmissionLimit is the decoded size a single artifact must stay below to enter the memory tier.
func (c Config) MemoryAdmissionLimit() int64 {
	return int64(float64(c.MaxMemoryCacheSizeBytes) * c.MemoryAdmissionRatio)
}

func invalidField(field, reason string) error {
	return errors.Join(ErrInvalidConfig, zerr.With(zerr.New(reason), "field", field))
}
