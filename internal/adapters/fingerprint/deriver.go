// Package fingerprint derives cache keys from generation requests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"

	"go.trai.ch/assetcache/internal/core/domain"
)

// Deriver implements ports.KeyDeriver.
type Deriver struct {
	volatile []string
}

// New returns a Deriver that ignores the given top-level config fields.
func New(volatileFields []string) *Deriver {
	return &Deriver{volatile: slices.Clone(volatileFields)}
}

// Normalize returns config with volatile fields removed. Anything other than a map
// normalizes to the empty map.
func (d *Deriver) Normalize(config domain.Value) domain.Value {
	if config.Kind() != domain.KindMap {
		return domain.Map(nil)
	}
	return config.Without(d.volatile...)
}

// Derive returns the fingerprint of (assetKind, normalized config) and the normalized config.
func (d *Deriver) Derive(assetKind string, config domain.Value) (domain.Fingerprint, domain.Value) {
	normalized := d.Normalize(config)

	// Canonical form of a map cannot fail to marshal: every number is finite.
	canonical, _ := normalized.MarshalJSON()

	h := sha256.New()
	h.Write([]byte(assetKind))
	h.Write([]byte{0})
	h.Write(canonical)

	return domain.Fingerprint(hex.EncodeToString(h.Sum(nil))), normalized
}
