package cache

import (
	"context"
	"slices"
	"sync/atomic"

	"go.trai.ch/assetcache/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// Stats describes both tiers. A closed cache reports zero values.
func (c *Cache) Stats() domain.Statistics {
	if !c.enter() {
		return domain.Statistics{}
	}
	defer c.exit()

	entries := c.index.Entries()
	stats := domain.Statistics{
		EntryCount:    len(entries),
		DiskBytes:     c.index.TotalBytes(),
		MemoryEntries: c.memory.Len(),
		MemoryBytes:   c.memory.Bytes(),
	}
	if len(entries) == 0 {
		return stats
	}

	// Entries come in insertion order, so strict comparisons keep the earlier
	// entry on ties, except for Newest which prefers the later one.
	oldest, newest, most, least := entries[0], entries[0], entries[0], entries[0]
	for _, e := range entries {
		stats.OriginalBytes += e.OriginalSizeBytes
		if e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
		if !e.CreatedAt.Before(newest.CreatedAt) {
			newest = e
		}
		if e.AccessCount > most.AccessCount {
			most = e
		}
		if e.AccessCount < least.AccessCount {
			least = e
		}
	}
	stats.Oldest = oldest.Summary()
	stats.Newest = newest.Summary()
	stats.MostAccessed = most.Summary()
	stats.LeastAccessed = least.Summary()
	return stats
}

// Entries returns a snapshot of the index in insertion order.
func (c *Cache) Entries() []domain.CacheEntry {
	if !c.enter() {
		return nil
	}
	defer c.exit()
	return c.index.Entries()
}

// Preload decodes the topN most accessed entries into the memory tier. Entries too large
// for the memory tier or already resident are skipped. It returns how many entries were
// loaded; access statistics are not changed.
func (c *Cache) Preload(ctx context.Context, topN int) (int, error) {
	if !c.enter() {
		return 0, domain.ErrClosed
	}
	defer c.exit()

	if topN <= 0 {
		return 0, nil
	}

	candidates := c.index.Entries()
	slices.SortStableFunc(candidates, func(a, b domain.CacheEntry) int {
		switch {
		case a.AccessCount > b.AccessCount:
			return -1
		case a.AccessCount < b.AccessCount:
			return 1
		default:
			return 0
		}
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	var loaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.PreloadConcurrency)

	for _, entry := range candidates {
		if !c.admissible(entry.OriginalSizeBytes) || c.memory.Contains(entry.Key) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if c.preloadOne(gctx, entry.Key) {
				loaded.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	c.publishUsage()
	c.log.Debug("preload finished", "requested", topN, "loaded", loaded.Load())
	return int(loaded.Load()), err
}

func (c *Cache) preloadOne(ctx context.Context, key domain.Fingerprint) bool {
	c.global.RLock()
	defer c.global.RUnlock()
	unlock := c.locks.lock(key)
	defer unlock()

	if c.memory.Contains(key) {
		return false
	}
	v, entry, ok := c.load(ctx, key)
	if !ok {
		return false
	}
	return c.memory.Admit(key, v, entry.OriginalSizeBytes)
}
