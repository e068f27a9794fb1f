package domain

import "time"

// CacheEntry is the index record for one artifact stored on disk.
type CacheEntry struct {
	Key               Fingerprint `json:"key"`
	AssetKind         string      `json:"assetKind"`
	Config            Value       `json:"normalizedConfig"`
	FilePath          string      `json:"filePath"`
	SizeBytes         int64       `json:"sizeBytes"`
	OriginalSizeBytes int64       `json:"originalSizeBytes"`
	Compressed        bool        `json:"compressed"`
	Encrypted         bool        `json:"encrypted"`
	KeyMaterial       []byte      `json:"encryptionKeyMaterial,omitzero"`
	Checksum          uint64      `json:"checksum"`
	CreatedAt         time.Time   `json:"createdAt"`
	LastAccessedAt    time.Time   `json:"lastAccessedAt"`
	AccessCount       int64       `json:"accessCount"`
	Sequence          uint64      `json:"sequence"`
}

// Meta returns the codec flags needed to decode the entry's file.
func (e CacheEntry) Meta() CodecMeta {
	return CodecMeta{
		Compressed:  e.Compressed,
		Encrypted:   e.Encrypted,
		KeyMaterial: e.KeyMaterial,
	}
}

// Expired reports whether the entry is older than maxAge at now.
func (e CacheEntry) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.CreatedAt) > maxAge
}

// Summary returns the entry's reporting view.
func (e CacheEntry) Summary() *EntrySummary {
	return &EntrySummary{
		Key:            e.Key,
		AssetKind:      e.AssetKind,
		SizeBytes:      e.SizeBytes,
		CreatedAt:      e.CreatedAt,
		LastAccessedAt: e.LastAccessedAt,
		AccessCount:    e.AccessCount,
	}
}

// CodecMeta carries the per-entry flags that make the codec pipeline reversible.
type CodecMeta struct {
	Compressed  bool
	Encrypted   bool
	KeyMaterial []byte
}

// MemoryEntry is a decoded artifact held by the memory tier.
type MemoryEntry struct {
	Key            Fingerprint
	Value          Value
	SizeBytes      int64
	LastAccessedAt time.Time
}
