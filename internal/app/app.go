// Package app implements the application layer for assetcache.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/assetcache/internal/adapters/codec"
	"go.trai.ch/assetcache/internal/adapters/diskstore"
	"go.trai.ch/assetcache/internal/adapters/fingerprint"
	"go.trai.ch/assetcache/internal/adapters/index"
	"go.trai.ch/assetcache/internal/adapters/memtier"
	"go.trai.ch/assetcache/internal/adapters/metrics"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
	"go.trai.ch/assetcache/internal/engine/cache"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	metrics      ports.Metrics
	clock        clockwork.Clock
}

// New creates a new App instance. A nil metrics adapter disables metrics.
func New(loader ports.ConfigLoader, log ports.Logger, m *metrics.Prometheus) *App {
	a := &App{
		configLoader: loader,
		logger:       log,
		metrics:      metrics.NewNoop(),
		clock:        clockwork.NewRealClock(),
	}
	if m != nil {
		a.metrics = m
	}
	return a
}

// WithClock replaces the clock handed to caches opened by the App.
// This is primarily used for testing.
func (a *App) WithClock(c clockwork.Clock) *App {
	a.clock = c
	return a
}

// Handle is an open cache together with the resources it owns.
type Handle struct {
	*cache.Cache
	codec *codec.Codec
}

// Close stops the cache and releases the codec.
func (h *Handle) Close() error {
	return errors.Join(h.Cache.Close(), h.codec.Close())
}

// Open loads the configuration at configPath and opens the cache it describes.
func (a *App) Open(ctx context.Context, configPath string) (*Handle, error) {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if lv, ok := a.logger.(interface{ SetLevel(string) }); ok {
		lv.SetLevel(cfg.LogLevel)
	}

	blobs, err := diskstore.New(cfg.RootDirectory)
	if err != nil {
		return nil, err
	}

	cdc, err := codec.New(codec.WithMinCompressBytes(cfg.MinCompressBytes))
	if err != nil {
		return nil, err
	}

	c, err := cache.Open(ctx, cache.Options{
		Config:  cfg,
		Deriver: fingerprint.New(cfg.VolatileFields),
		Codec:   cdc,
		Blobs:   blobs,
		Memory:  memtier.New(cfg.MaxMemoryCacheSizeBytes, a.clock),
		Index:   index.New(cfg.RootDirectory, a.logger, index.WithClock(a.clock)),
		Logger:  a.logger,
		Metrics: a.metrics,
		Clock:   a.clock,
	})
	if err != nil {
		_ = cdc.Close()
		return nil, zerr.Wrap(err, "failed to open cache")
	}

	a.logger.Debug("cache opened", "root", cfg.RootDirectory)
	return &Handle{Cache: c, codec: cdc}, nil
}

// with opens the cache, runs fn and closes the cache again.
func (a *App) with(ctx context.Context, configPath string, fn func(*Handle) error) (err error) {
	h, err := a.Open(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			err = errors.Join(err, zerr.Wrap(cerr, "failed to close cache"))
		}
	}()
	return fn(h)
}

// Stats reports both tiers.
func (a *App) Stats(ctx context.Context, configPath string) (domain.Statistics, error) {
	var stats domain.Statistics
	err := a.with(ctx, configPath, func(h *Handle) error {
		stats = h.Stats()
		return nil
	})
	return stats, err
}

// List returns every indexed entry in insertion order.
func (a *App) List(ctx context.Context, configPath string) ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry
	err := a.with(ctx, configPath, func(h *Handle) error {
		entries = h.Entries()
		return nil
	})
	return entries, err
}

// Get looks up the artifact stored for a request.
func (a *App) Get(ctx context.Context, configPath, assetKind string, request domain.Value) (domain.Value, bool, error) {
	var (
		artifact domain.Value
		found    bool
	)
	err := a.with(ctx, configPath, func(h *Handle) error {
		artifact, found = h.Get(ctx, assetKind, request)
		return nil
	})
	return artifact, found, err
}

// Put stores an artifact and returns the key it was stored under.
func (a *App) Put(
	ctx context.Context,
	configPath, assetKind string,
	request, artifact domain.Value,
) (domain.Fingerprint, error) {
	var key domain.Fingerprint
	err := a.with(ctx, configPath, func(h *Handle) error {
		key = h.Key(assetKind, request)
		return h.Put(ctx, assetKind, request, artifact)
	})
	return key, err
}

// Remove deletes the entry stored for a request.
func (a *App) Remove(ctx context.Context, configPath, assetKind string, request domain.Value) error {
	return a.with(ctx, configPath, func(h *Handle) error {
		return h.Remove(ctx, assetKind, request)
	})
}

// Clear empties the cache.
func (a *App) Clear(ctx context.Context, configPath string) error {
	return a.with(ctx, configPath, func(h *Handle) error {
		return h.Clear(ctx)
	})
}

// Sweep runs one eviction pass.
func (a *App) Sweep(ctx context.Context, configPath string) error {
	return a.with(ctx, configPath, func(h *Handle) error {
		return h.Sweep(ctx)
	})
}

// Preload warms the memory tier with the topN most accessed entries.
func (a *App) Preload(ctx context.Context, configPath string, topN int) (int, error) {
	var loaded int
	err := a.with(ctx, configPath, func(h *Handle) error {
		var err error
		loaded, err = h.Preload(ctx, topN)
		return err
	})
	return loaded, err
}

// WriteMetrics opens the cache so its usage gauges are current and writes every metric
// in the Prometheus text format.
func (a *App) WriteMetrics(ctx context.Context, configPath string, w io.Writer) error {
	exporter, ok := a.metrics.(interface{ WriteText(io.Writer) error })
	if !ok {
		return nil
	}
	if err := a.with(ctx, configPath, func(*Handle) error { return nil }); err != nil {
		return err
	}
	return exporter.WriteText(w)
}
