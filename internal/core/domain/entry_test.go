package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetcache/internal/core/domain"
)

func TestCacheEntry_Expired(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e := domain.CacheEntry{CreatedAt: created, LastAccessedAt: created.Add(48 * time.Hour)}

	assert.False(t, e.Expired(created.Add(time.Hour), 24*time.Hour))
	assert.False(t, e.Expired(created.Add(24*time.Hour), 24*time.Hour))
	// Access does not extend the age budget.
	assert.True(t, e.Expired(created.Add(25*time.Hour), 24*time.Hour))
}

func TestCacheEntry_MetaAndSummary(t *testing.T) {
	e := domain.CacheEntry{
		Key:         domain.Fingerprint(strings.Repeat("a", domain.FingerprintLength)),
		AssetKind:   "sprite",
		SizeBytes:   10,
		Compressed:  true,
		Encrypted:   true,
		KeyMaterial: []byte{1, 2, 3},
		AccessCount: 4,
	}

	meta := e.Meta()
	assert.True(t, meta.Compressed)
	assert.True(t, meta.Encrypted)
	assert.Equal(t, []byte{1, 2, 3}, meta.KeyMaterial)

	s := e.Summary()
	assert.Equal(t, e.Key, s.Key)
	assert.Equal(t, "sprite", s.AssetKind)
	assert.Equal(t, int64(4), s.AccessCount)
}

func TestFingerprint(t *testing.T) {
	valid := domain.Fingerprint(strings.Repeat("0f", domain.FingerprintLength/2))
	assert.True(t, valid.Valid())
	assert.Equal(t, "0f0f0f0f0f0f", valid.Short())

	assert.False(t, domain.Fingerprint("abc").Valid())
	assert.False(t, domain.Fingerprint(strings.Repeat("A", domain.FingerprintLength)).Valid())
	assert.False(t, domain.Fingerprint(strings.Repeat("g", domain.FingerprintLength)).Valid())
	assert.Equal(t, "abc", domain.Fingerprint("abc").Short())
}
