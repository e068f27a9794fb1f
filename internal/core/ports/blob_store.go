package ports

import (
	"context"

	"go.trai.ch/assetcache/internal/core/domain"
)

// BlobStore is the durable tier: one file per fingerprint under a root directory.
//
//go:generate mockgen -source=blob_store.go -destination=mocks/mock_blob_store.go -package=mocks
type BlobStore interface {
	// Write atomically replaces the file for key and returns its base name.
	Write(ctx context.Context, key domain.Fingerprint, data []byte) (string, error)
	// Read returns the file contents for key. A missing file wraps domain.ErrEntryMissing.
	Read(ctx context.Context, key domain.Fingerprint) ([]byte, error)
	// Stat returns the size of the file for key. A missing file wraps domain.ErrEntryMissing.
	Stat(key domain.Fingerprint) (int64, error)
	// Remove deletes the file for key. A file that is already gone is not an error.
	Remove(key domain.Fingerprint) error
	// List returns the fingerprints of every entry file present.
	List() ([]domain.Fingerprint, error)
	// Clear deletes every entry file.
	Clear(ctx context.Context) error
	// CleanupTemp removes temporary files left behind by interrupted writes.
	CleanupTemp() error
}
