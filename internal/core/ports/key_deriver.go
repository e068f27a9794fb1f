package ports

import "go.trai.ch/assetcache/internal/core/domain"

// KeyDeriver turns a generation request into its cache fingerprint.
//
//go:generate mockgen -source=key_deriver.go -destination=mocks/mock_key_deriver.go -package=mocks
type KeyDeriver interface {
	// Derive normalizes config and returns the fingerprint of (assetKind, normalized config)
	// together with the normalized config itself.
	Derive(assetKind string, config domain.Value) (domain.Fingerprint, domain.Value)
}
