package config

import "go.trai.ch/assetcache/internal/core/domain"

// SchemaVersion is the only configuration file version understood by the loader.
const SchemaVersion = "1"

// Cachefile represents the structure of the assetcache.yaml configuration file.
type Cachefile struct {
	Version string        `yaml:"version"`
	Cache   domain.Config `yaml:"cache"`
}
