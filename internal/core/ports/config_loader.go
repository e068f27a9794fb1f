package ports

import "go.trai.ch/assetcache/internal/core/domain"

// ConfigLoader defines the interface for loading the cache configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path on top of the defaults.
	// An empty path or a missing file yields the defaults.
	Load(path string) (domain.Config, error)
}
