package domain

import "go.trai.ch/zerr"

var (
	// ErrEntryMissing is returned when an indexed entry has no file on disk.
	ErrEntryMissing = zerr.New("cache entry file missing")

	// ErrSizeMismatch is returned when an entry file's size differs from the size recorded in the index.
	ErrSizeMismatch = zerr.New("cache entry size mismatch")

	// ErrExpired is returned when an entry is older than the configured maximum file age.
	ErrExpired = zerr.New("cache entry expired")

	// ErrChecksumMismatch is reported when the bytes read from disk do not hash to the recorded checksum.
	ErrChecksumMismatch = zerr.New("cache entry checksum mismatch")

	// ErrCodec is returned when an artifact cannot be serialized, compressed, encrypted, or reversed.
	ErrCodec = zerr.New("cache entry codec failure")

	// ErrIndexPersist is returned when the index file cannot be written.
	ErrIndexPersist = zerr.New("failed to persist cache index")

	// ErrClosed is returned by mutating operations after the cache has been closed.
	ErrClosed = zerr.New("cache is closed")

	// ErrInvalidConfig is returned when the cache configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid cache configuration")

	// ErrInvalidFingerprint is returned when a fingerprint is not a 64 character lowercase hex string.
	ErrInvalidFingerprint = zerr.New("invalid fingerprint")
)
