package cache

import (
	"context"

	"go.trai.ch/assetcache/internal/core/domain"
)

// victim is an entry selected for eviction whose key lock is held.
type victim struct {
	entry  domain.CacheEntry
	unlock func()
}

// Enforce runs the age and size passes immediately.
func (c *Cache) Enforce(ctx context.Context) error {
	if !c.enter() {
		return domain.ErrClosed
	}
	defer c.exit()

	c.enforce(ctx)
	c.publishUsage()
	return nil
}

// Sweep runs the eviction passes and persists pending access statistics. It is what the
// background sweeper does on every tick.
func (c *Cache) Sweep(ctx context.Context) error {
	if !c.enter() {
		return domain.ErrClosed
	}
	defer c.exit()

	c.enforce(ctx)
	err := c.index.Flush()
	c.publishUsage()
	return err
}

func (c *Cache) sweepLoop() {
	defer close(c.done)

	ticker := c.clock.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.Chan():
			if err := c.Sweep(context.Background()); err != nil {
				c.log.Error(err, "phase", "sweep")
			}
		}
	}
}

// enforce removes entries older than the age budget, then, if the disk tier is over
// budget, removes least recently used entries until it is at or below the eviction
// target. It never fails; problems are logged.
func (c *Cache) enforce(ctx context.Context) {
	c.global.RLock()
	defer c.global.RUnlock()
	c.enforceMu.Lock()
	defer c.enforceMu.Unlock()

	c.evictExpired(ctx)
	c.evictOversize(ctx)
}

func (c *Cache) evictExpired(ctx context.Context) {
	now := c.clock.Now()

	var victims []victim
	for _, entry := range c.index.Entries() {
		if ctx.Err() != nil {
			break
		}
		if !entry.Expired(now, c.cfg.MaxFileAge) {
			continue
		}
		v, ok := c.claim(entry, func(cur domain.CacheEntry) bool {
			return cur.Expired(now, c.cfg.MaxFileAge)
		})
		if ok {
			victims = append(victims, v)
		}
	}
	c.evict(victims, reasonAge)
}

func (c *Cache) evictOversize(ctx context.Context) {
	total := c.index.TotalBytes()
	if total <= c.cfg.MaxCacheSizeBytes {
		return
	}
	target := c.cfg.EvictionTargetBytes()

	var victims []victim
	for _, entry := range c.index.LRU() {
		if total <= target || ctx.Err() != nil {
			break
		}
		v, ok := c.claim(entry, nil)
		if !ok {
			continue
		}
		victims = append(victims, v)
		total -= v.entry.SizeBytes
	}
	c.evict(victims, reasonSize)

	if remaining := c.index.TotalBytes(); remaining > target {
		c.log.Warn("cache still above eviction target", "bytes", remaining, "target", target)
	}
}

// claim takes the key lock of a snapshot entry without waiting and confirms the entry
// is unchanged. keep, when set, must also hold for the current record.
func (c *Cache) claim(snapshot domain.CacheEntry, keep func(domain.CacheEntry) bool) (victim, bool) {
	unlock, ok := c.locks.tryLock(snapshot.Key)
	if !ok {
		return victim{}, false
	}
	cur, ok := c.index.Get(snapshot.Key)
	if !ok || cur.Sequence != snapshot.Sequence || (keep != nil && !keep(cur)) {
		unlock()
		return victim{}, false
	}
	return victim{entry: cur, unlock: unlock}, true
}

// evict deletes the victims' files and forgets them in a single index write, then
// releases their locks. A file that cannot be deleted is still forgotten; it becomes an
// orphan removed on the next Open.
func (c *Cache) evict(victims []victim, reason string) {
	if len(victims) == 0 {
		return
	}
	defer func() {
		for _, v := range victims {
			v.unlock()
		}
	}()

	keys := make([]domain.Fingerprint, 0, len(victims))
	for _, v := range victims {
		c.memory.Remove(v.entry.Key)
		if err := c.blobs.Remove(v.entry.Key); err != nil {
			c.log.Warn("failed to remove evicted file", "key", v.entry.Key.Short(), "error", err)
		}
		keys = append(keys, v.entry.Key)
	}

	if err := c.index.Delete(keys...); err != nil {
		c.log.Error(err, "phase", "evict", "reason", reason)
		return
	}
	for _, v := range victims {
		c.metrics.RecordEviction(reason, v.entry.SizeBytes)
	}
	c.log.Debug("entries evicted", "reason", reason, "count", len(victims))
}
