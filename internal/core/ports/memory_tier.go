package ports

import "go.trai.ch/assetcache/internal/core/domain"

// MemoryTier is a bounded cache of decoded artifacts. It is disposable: nothing in it
// needs to be written back anywhere.
//
//go:generate mockgen -source=memory_tier.go -destination=mocks/mock_memory_tier.go -package=mocks
type MemoryTier interface {
	// Get returns the decoded artifact for key and refreshes its access time.
	Get(key domain.Fingerprint) (domain.Value, bool)
	// Contains reports whether key is resident without touching it.
	Contains(key domain.Fingerprint) bool
	// Admit inserts value, evicting the oldest insertions until it fits.
	// It reports false when value is larger than the whole budget.
	Admit(key domain.Fingerprint, value domain.Value, size int64) bool
	// Remove drops key if present.
	Remove(key domain.Fingerprint)
	// Clear drops everything.
	Clear()
	// Len returns the number of resident entries.
	Len() int
	// Bytes returns the total size of resident entries.
	Bytes() int64
}
