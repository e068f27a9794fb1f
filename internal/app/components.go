package app

import (
	"go.trai.ch/assetcache/internal/adapters/metrics"
	"go.trai.ch/assetcache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Metrics      *metrics.Prometheus
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(a *App, log ports.Logger, loader ports.ConfigLoader, m *metrics.Prometheus) *Components {
	return &Components{
		App:          a,
		Logger:       log,
		ConfigLoader: loader,
		Metrics:      m,
	}
}
