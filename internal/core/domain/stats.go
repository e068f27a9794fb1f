package domain

import "time"

// EntrySummary is the reporting view of a CacheEntry.
type EntrySummary struct {
	Key            Fingerprint `json:"key"`
	AssetKind      string      `json:"assetKind"`
	SizeBytes      int64       `json:"sizeBytes"`
	CreatedAt      time.Time   `json:"createdAt"`
	LastAccessedAt time.Time   `json:"lastAccessedAt"`
	AccessCount    int64       `json:"accessCount"`
}

// Statistics describes the current contents of both cache tiers.
type Statistics struct {
	EntryCount    int           `json:"entryCount"`
	DiskBytes     int64         `json:"diskBytes"`
	OriginalBytes int64         `json:"originalBytes"`
	MemoryEntries int           `json:"memoryEntries"`
	MemoryBytes   int64         `json:"memoryBytes"`
	Oldest        *EntrySummary `json:"oldest,omitempty"`
	Newest        *EntrySummary `json:"newest,omitempty"`
	MostAccessed  *EntrySummary `json:"mostAccessed,omitempty"`
	LeastAccessed *EntrySummary `json:"leastAccessed,omitempty"`
}
