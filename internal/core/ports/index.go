package ports

import (
	"context"
	"time"

	"go.trai.ch/assetcache/internal/core/domain"
)

// Index is the authoritative catalog of entries on disk.
//
// Put, Delete and Reset persist the resulting state before applying it in memory; when
// persisting fails they return an error wrapping domain.ErrIndexPersist and leave the
// in-memory state unchanged.
//
//go:generate mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type Index interface {
	// Load reads the persisted index, keeping only records for which validate returns nil.
	// It returns the number of records dropped. A missing index file is not an error.
	Load(ctx context.Context, validate func(domain.CacheEntry) error) (int, error)
	// Get returns the record for key.
	Get(key domain.Fingerprint) (domain.CacheEntry, bool)
	// Put inserts or replaces the record for entry.Key.
	Put(entry domain.CacheEntry) error
	// Delete removes the records for keys. Unknown keys are ignored.
	Delete(keys ...domain.Fingerprint) error
	// Reset removes every record.
	Reset() error
	// Touch records an access at the given time without persisting.
	Touch(key domain.Fingerprint, at time.Time) (domain.CacheEntry, bool)
	// Flush persists pending access updates.
	Flush() error
	// Entries returns a snapshot of all records in insertion order.
	Entries() []domain.CacheEntry
	// LRU returns a snapshot of all records, least recently used first.
	LRU() []domain.CacheEntry
	// Len returns the number of records.
	Len() int
	// TotalBytes returns the sum of SizeBytes over all records.
	TotalBytes() int64
}
