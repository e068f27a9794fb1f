package ports

// Tier names reported to Metrics.RecordHit.
const (
	TierMemory = "memory"
	TierDisk   = "disk"
)

// Metrics receives cache events for observability. Implementations must be safe for
// concurrent use.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// RecordHit records a lookup served from the given tier.
	RecordHit(tier string)
	// RecordMiss records a lookup that found nothing usable.
	RecordMiss()
	// RecordPut records a stored entry and its on-disk size.
	RecordPut(bytes int64)
	// RecordEviction records an entry removed by the size or age budget.
	RecordEviction(reason string, bytes int64)
	// RecordPurge records an entry dropped because it failed validation or decoding.
	RecordPurge(reason string)
	// SetUsage publishes the current tier occupancy.
	SetUsage(entries int, diskBytes, memoryBytes int64)
}
