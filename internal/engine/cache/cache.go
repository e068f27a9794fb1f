// Package cache implements the two-tier content-addressable asset cache.
//
// Artifacts are keyed by the fingerprint of their generation request. The disk tier and
// its index are authoritative; the memory tier only short-circuits decoding.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Purge reasons reported to ports.Metrics.
const (
	reasonMissing  = "missing"
	reasonSize     = "size"
	reasonExpired  = "expired"
	reasonChecksum = "checksum"
	reasonCodec    = "codec"
	reasonAge      = "age"
)

// Options wires a Cache. Config, Deriver, Codec, Blobs, Memory and Index are required.
type Options struct {
	Config  domain.Config
	Deriver ports.KeyDeriver
	Codec   ports.Codec
	Blobs   ports.BlobStore
	Memory  ports.MemoryTier
	Index   ports.Index
	Logger  ports.Logger
	Metrics ports.Metrics
	Clock   clockwork.Clock
}

// Cache is safe for concurrent use.
type Cache struct {
	cfg     domain.Config
	deriver ports.KeyDeriver
	codec   ports.Codec
	blobs   ports.BlobStore
	memory  ports.MemoryTier
	index   ports.Index
	log     ports.Logger
	metrics ports.Metrics
	clock   clockwork.Clock

	locks *keyLocks
	// global is held shared by per-key operations and exclusively by Clear.
	global sync.RWMutex
	// enforceMu serializes eviction passes.
	enforceMu sync.Mutex

	// life is held shared by every public operation; Close takes it exclusively to drain them.
	life   sync.RWMutex
	closed bool

	closeOnce sync.Once
	closeErr  error
	stop      chan struct{}
	done      chan struct{}
}

// Open validates the options, reconciles the index with the files on disk, runs one
// eviction pass and starts the background sweeper.
func Open(ctx context.Context, opts Options) (*Cache, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Deriver == nil || opts.Codec == nil || opts.Blobs == nil || opts.Memory == nil || opts.Index == nil {
		return nil, errors.Join(domain.ErrInvalidConfig, zerr.New("cache options are incomplete"))
	}

	c := &Cache{
		cfg:     opts.Config,
		deriver: opts.Deriver,
		codec:   opts.Codec,
		blobs:   opts.Blobs,
		memory:  opts.Memory,
		index:   opts.Index,
		log:     opts.Logger,
		metrics: opts.Metrics,
		clock:   opts.Clock,
		locks:   newKeyLocks(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}

	if err := c.recover(ctx); err != nil {
		return nil, err
	}

	c.enforce(ctx)
	if err := c.index.Flush(); err != nil {
		c.log.Error(err, "phase", "open")
	}
	c.publishUsage()

	go c.sweepLoop()
	return c, nil
}

// recover loads the index and removes whatever on disk it does not describe.
func (c *Cache) recover(ctx context.Context) error {
	dropped, err := c.index.Load(ctx, c.validate)
	if err != nil {
		return zerr.Wrap(err, "failed to load cache index")
	}
	if dropped > 0 {
		c.log.Info("dropped invalid index records", "count", dropped)
	}

	if err := c.blobs.CleanupTemp(); err != nil {
		c.log.Warn("failed to remove temp files", "error", err)
	}

	keys, err := c.blobs.List()
	if err != nil {
		return zerr.Wrap(err, "failed to list cache files")
	}
	orphans := 0
	for _, key := range keys {
		if _, ok := c.index.Get(key); ok {
			continue
		}
		if err := c.blobs.Remove(key); err != nil {
			c.log.Warn("failed to remove orphan file", "key", key.Short(), "error", err)
			continue
		}
		orphans++
	}
	if orphans > 0 {
		c.log.Info("removed orphan cache files", "count", orphans)
	}
	return nil
}

// Key returns the fingerprint a request maps to.
func (c *Cache) Key(assetKind string, config domain.Value) domain.Fingerprint {
	key, _ := c.deriver.Derive(assetKind, config)
	return key
}

// Get returns the stored artifact for (assetKind, config). Any failure along the way is
// reported as a miss; invalid entries are purged.
func (c *Cache) Get(ctx context.Context, assetKind string, config domain.Value) (domain.Value, bool) {
	if !c.enter() {
		return domain.Null(), false
	}
	defer c.exit()

	key, _ := c.deriver.Derive(assetKind, config)

	if v, ok := c.memoryHit(key); ok {
		return v, true
	}

	c.global.RLock()
	defer c.global.RUnlock()
	unlock := c.locks.lock(key)
	defer unlock()

	// Another caller may have loaded it while we waited.
	if v, ok := c.memoryHit(key); ok {
		return v, true
	}

	v, entry, ok := c.load(ctx, key)
	if !ok {
		c.metrics.RecordMiss()
		return domain.Null(), false
	}

	c.index.Touch(key, c.clock.Now())
	c.admit(key, v, entry.OriginalSizeBytes)
	c.metrics.RecordHit(ports.TierDisk)
	return v, true
}

// Contains reports whether a valid entry exists for (assetKind, config). An index
// record that fails validation is purged.
func (c *Cache) Contains(ctx context.Context, assetKind string, config domain.Value) bool {
	if !c.enter() {
		return false
	}
	defer c.exit()

	key, _ := c.deriver.Derive(assetKind, config)
	if c.memory.Contains(key) {
		return true
	}

	c.global.RLock()
	defer c.global.RUnlock()
	unlock := c.locks.lock(key)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return false
	}
	entry, ok := c.index.Get(key)
	if !ok {
		return false
	}
	if err := c.validate(entry); err != nil {
		c.purgeInvalid(key, err)
		return false
	}
	return true
}

// Put stores artifact as the result of (assetKind, config), replacing any previous entry,
// then enforces the size and age budgets.
func (c *Cache) Put(ctx context.Context, assetKind string, config domain.Value, artifact domain.Value) error {
	if !c.enter() {
		return domain.ErrClosed
	}
	defer c.exit()

	if err := c.put(ctx, assetKind, config, artifact); err != nil {
		return err
	}

	// The key lock is released by now: eviction takes victim locks itself.
	c.enforce(ctx)
	c.publishUsage()
	return nil
}

func (c *Cache) put(ctx context.Context, assetKind string, config, artifact domain.Value) error {
	key, normalized := c.deriver.Derive(assetKind, config)

	c.global.RLock()
	defer c.global.RUnlock()
	unlock := c.locks.lock(key)
	defer unlock()

	encoded, err := c.codec.Encode(artifact, ports.EncodeOptions{
		Compress: c.cfg.CompressionEnabled,
		Encrypt:  c.cfg.EncryptionEnabled,
	})
	if err != nil {
		return err
	}

	// A replaced entry's bytes are kept so a failed index write can put them back.
	var prior []byte
	if _, ok := c.index.Get(key); ok {
		if prior, err = c.blobs.Read(ctx, key); err != nil {
			if !errors.Is(err, domain.ErrEntryMissing) {
				return err
			}
			prior = nil
		}
	}

	name, err := c.blobs.Write(ctx, key, encoded.Bytes)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	entry := domain.CacheEntry{
		Key:               key,
		AssetKind:         assetKind,
		Config:            normalized,
		FilePath:          name,
		SizeBytes:         int64(len(encoded.Bytes)),
		OriginalSizeBytes: encoded.OriginalSize,
		Compressed:        encoded.Meta.Compressed,
		Encrypted:         encoded.Meta.Encrypted,
		KeyMaterial:       encoded.Meta.KeyMaterial,
		Checksum:          xxhash.Sum64(encoded.Bytes),
		CreatedAt:         now,
		LastAccessedAt:    now,
	}

	if err := c.index.Put(entry); err != nil {
		c.rollbackWrite(ctx, key, prior)
		return err
	}

	if c.admissible(entry.OriginalSizeBytes) {
		c.memory.Admit(key, artifact, entry.OriginalSizeBytes)
	} else {
		c.memory.Remove(key)
	}
	c.metrics.RecordPut(entry.SizeBytes)
	c.log.Debug("entry stored", "key", key.Short(), "kind", assetKind, "bytes", entry.SizeBytes)
	return nil
}

// rollbackWrite restores the file a failed put replaced, or removes it when there was
// nothing to restore. The caller holds the key lock.
func (c *Cache) rollbackWrite(ctx context.Context, key domain.Fingerprint, prior []byte) {
	if prior != nil {
		_, err := c.blobs.Write(context.WithoutCancel(ctx), key, prior)
		if err == nil {
			return
		}
		c.log.Warn("failed to restore replaced file", "key", key.Short(), "error", err)
	}
	c.memory.Remove(key)
	if err := c.blobs.Remove(key); err != nil {
		c.log.Warn("failed to remove unindexed file", "key", key.Short(), "error", err)
	}
}

// Remove deletes the entry for (assetKind, config) from both tiers.
func (c *Cache) Remove(ctx context.Context, assetKind string, config domain.Value) error {
	if !c.enter() {
		return domain.ErrClosed
	}
	defer c.exit()

	key, _ := c.deriver.Derive(assetKind, config)
	if err := c.removeKey(ctx, key); err != nil {
		return err
	}
	c.publishUsage()
	return nil
}

func (c *Cache) removeKey(ctx context.Context, key domain.Fingerprint) error {
	c.global.RLock()
	defer c.global.RUnlock()
	unlock := c.locks.lock(key)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	c.memory.Remove(key)
	if err := c.blobs.Remove(key); err != nil {
		return err
	}
	return c.index.Delete(key)
}

// Clear empties both tiers and resets the index.
func (c *Cache) Clear(ctx context.Context) error {
	if !c.enter() {
		return domain.ErrClosed
	}
	defer c.exit()

	c.global.Lock()
	defer c.global.Unlock()

	c.memory.Clear()
	if err := c.blobs.Clear(ctx); err != nil {
		return zerr.Wrap(err, "failed to delete cache files")
	}
	if err := c.index.Reset(); err != nil {
		return err
	}
	c.log.Info("cache cleared")
	c.publishUsage()
	return nil
}

// Close stops the sweeper, waits for in-flight operations and persists pending access
// statistics. Later mutations fail with domain.ErrClosed and lookups miss.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done

		c.life.Lock()
		c.closed = true
		c.life.Unlock()

		if err := c.index.Flush(); err != nil {
			c.closeErr = err
		}
	})
	return c.closeErr
}

func (c *Cache) enter() bool {
	c.life.RLock()
	if c.closed {
		c.life.RUnlock()
		return false
	}
	return true
}

func (c *Cache) exit() {
	c.life.RUnlock()
}

func (c *Cache) memoryHit(key domain.Fingerprint) (domain.Value, bool) {
	v, ok := c.memory.Get(key)
	if !ok {
		return domain.Value{}, false
	}
	c.index.Touch(key, c.clock.Now())
	c.metrics.RecordHit(ports.TierMemory)
	return v, true
}

// load reads and decodes the disk entry for key. The caller holds the key lock.
// Entries that fail validation, checksum or decoding are purged; transient read errors
// are reported as a miss and leave the entry in place.
func (c *Cache) load(ctx context.Context, key domain.Fingerprint) (domain.Value, domain.CacheEntry, bool) {
	entry, ok := c.index.Get(key)
	if !ok {
		return domain.Value{}, entry, false
	}
	if err := c.validate(entry); err != nil {
		c.purgeInvalid(key, err)
		return domain.Value{}, entry, false
	}

	data, err := c.blobs.Read(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrEntryMissing) {
			c.purge(key, reasonMissing)
		} else {
			c.log.Warn("failed to read cache file", "key", key.Short(), "error", err)
		}
		return domain.Value{}, entry, false
	}

	if sum := xxhash.Sum64(data); sum != entry.Checksum {
		err := errors.Join(domain.ErrChecksumMismatch,
			zerr.With(zerr.With(zerr.New("file checksum differs from index"), "expected", entry.Checksum), "actual", sum))
		c.log.Warn("failed to verify cache file", "key", key.Short(), "error", err)
		c.purge(key, reasonChecksum)
		return domain.Value{}, entry, false
	}

	v, err := c.codec.Decode(data, entry.Meta())
	if err != nil {
		c.log.Warn("failed to decode cache file", "key", key.Short(), "error", err)
		c.purge(key, reasonCodec)
		return domain.Value{}, entry, false
	}
	return v, entry, true
}

// validate checks that the entry's file exists with the recorded size and that the
// entry has not outlived the age budget.
func (c *Cache) validate(entry domain.CacheEntry) error {
	size, err := c.blobs.Stat(entry.Key)
	if err != nil {
		return err
	}
	if size != entry.SizeBytes {
		return errors.Join(domain.ErrSizeMismatch,
			zerr.With(zerr.With(zerr.New("file size differs from index"), "expected", entry.SizeBytes), "actual", size))
	}
	if entry.Expired(c.clock.Now(), c.cfg.MaxFileAge) {
		return domain.ErrExpired
	}
	return nil
}

func (c *Cache) purgeInvalid(key domain.Fingerprint, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryMissing):
		c.purge(key, reasonMissing)
	case errors.Is(err, domain.ErrSizeMismatch):
		c.purge(key, reasonSize)
	case errors.Is(err, domain.ErrExpired):
		c.purge(key, reasonExpired)
	default:
		c.log.Warn("failed to validate cache entry", "key", key.Short(), "error", err)
	}
}

// purge drops key from every tier. The caller holds the key lock.
func (c *Cache) purge(key domain.Fingerprint, reason string) {
	c.memory.Remove(key)
	if err := c.blobs.Remove(key); err != nil {
		c.log.Warn("failed to remove purged file", "key", key.Short(), "error", err)
	}
	if err := c.index.Delete(key); err != nil {
		c.log.Error(err, "key", key.Short(), "phase", "purge")
	}
	c.metrics.RecordPurge(reason)
	c.log.Debug("entry purged", "key", key.Short(), "reason", reason)
}

func (c *Cache) admissible(size int64) bool {
	return size < c.cfg.MemoryAdmissionLimit()
}

func (c *Cache) admit(key domain.Fingerprint, v domain.Value, size int64) {
	if c.admissible(size) {
		c.memory.Admit(key, v, size)
	}
}

func (c *Cache) publishUsage() {
	c.metrics.SetUsage(c.index.Len(), c.index.TotalBytes(), c.memory.Bytes())
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(error, ...any)  {}

type nopMetrics struct{}

func (nopMetrics) RecordHit(string)             {}
func (nopMetrics) RecordMiss()                  {}
func (nopMetrics) RecordPut(int64)              {}
func (nopMetrics) RecordEviction(string, int64) {}
func (nopMetrics) RecordPurge(string)           {}
func (nopMetrics) SetUsage(int, int64, int64)   {}
