package codec_test

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/adapters/codec"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
)

func newCodec(t *testing.T, opts ...codec.Option) *codec.Codec {
	t.Helper()
	c, err := codec.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleArtifact() domain.Value {
	return domain.FromAny(map[string]any{
		"width":  256,
		"height": 256,
		"pixels": base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB, 0xCD}, 4096)),
		"layers": []any{"base", "shadow", map[string]any{"blend": "multiply", "alpha": 0.5}},
		"meta":   nil,
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec(t)
	artifact := sampleArtifact()

	tests := []struct {
		name string
		opts ports.EncodeOptions
	}{
		{name: "plain", opts: ports.EncodeOptions{}},
		{name: "compressed", opts: ports.EncodeOptions{Compress: true}},
		{name: "encrypted", opts: ports.EncodeOptions{Encrypt: true}},
		{name: "compressed and encrypted", opts: ports.EncodeOptions{Compress: true, Encrypt: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := c.Encode(artifact, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.opts.Compress, enc.Meta.Compressed)
			assert.Equal(t, tt.opts.Encrypt, enc.Meta.Encrypted)
			if tt.opts.Encrypt {
				assert.Len(t, enc.Meta.KeyMaterial, codec.KeySize)
			} else {
				assert.Empty(t, enc.Meta.KeyMaterial)
			}

			got, err := c.Decode(enc.Bytes, enc.Meta)
			require.NoError(t, err)
			assert.True(t, artifact.Equal(got))
		})
	}
}

func TestCodec_SmallPayloadNotCompressed(t *testing.T) {
	c := newCodec(t)

	enc, err := c.Encode(domain.String("tiny"), ports.EncodeOptions{Compress: true})
	require.NoError(t, err)
	assert.False(t, enc.Meta.Compressed)
	assert.Equal(t, `"tiny"`, string(enc.Bytes))
	assert.Equal(t, int64(len(`"tiny"`)), enc.OriginalSize)
}

func TestCodec_IncompressiblePayloadKeptRaw(t *testing.T) {
	c := newCodec(t, codec.WithMinCompressBytes(0))

	// Two characters cannot shrink below the zstd frame overhead.
	enc, err := c.Encode(domain.Number(7), ports.EncodeOptions{Compress: true})
	require.NoError(t, err)
	assert.False(t, enc.Meta.Compressed)
}

func TestCodec_CompressionShrinksRepetitivePayload(t *testing.T) {
	c := newCodec(t)

	artifact := domain.String(strings.Repeat("abcdefgh", 1024))
	enc, err := c.Encode(artifact, ports.EncodeOptions{Compress: true})
	require.NoError(t, err)
	assert.True(t, enc.Meta.Compressed)
	assert.Less(t, int64(len(enc.Bytes)), enc.OriginalSize)
}

func TestCodec_FreshKeyPerEntry(t *testing.T) {
	c := newCodec(t)

	a, err := c.Encode(domain.String("same"), ports.EncodeOptions{Encrypt: true})
	require.NoError(t, err)
	b, err := c.Encode(domain.String("same"), ports.EncodeOptions{Encrypt: true})
	require.NoError(t, err)

	assert.NotEqual(t, a.Meta.KeyMaterial, b.Meta.KeyMaterial)
	assert.NotEqual(t, a.Bytes, b.Bytes)
	assert.NotContains(t, string(a.Bytes), "same")
}

func TestCodec_DecodeFailures(t *testing.T) {
	c := newCodec(t)
	enc, err := c.Encode(sampleArtifact(), ports.EncodeOptions{Compress: true, Encrypt: true})
	require.NoError(t, err)

	tampered := bytes.Clone(enc.Bytes)
	tampered[len(tampered)-1] ^= 0xFF

	wrongKey := bytes.Clone(enc.Meta.KeyMaterial)
	wrongKey[0] ^= 0xFF

	tests := []struct {
		name string
		data []byte
		meta domain.CodecMeta
	}{
		{name: "tampered ciphertext", data: tampered, meta: enc.Meta},
		{name: "wrong key", data: enc.Bytes, meta: domain.CodecMeta{Compressed: true, Encrypted: true, KeyMaterial: wrongKey}},
		{name: "missing key", data: enc.Bytes, meta: domain.CodecMeta{Compressed: true, Encrypted: true}},
		{name: "truncated", data: enc.Bytes[:10], meta: enc.Meta},
		{name: "garbage json", data: []byte("{not json"), meta: domain.CodecMeta{}},
		{name: "garbage zstd", data: []byte("definitely not zstd"), meta: domain.CodecMeta{Compressed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.data, tt.meta)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCodec)
		})
	}
}

func TestCodec_DecodeLimit(t *testing.T) {
	c := newCodec(t, codec.WithMaxDecodedBytes(64))

	_, err := c.Decode([]byte(`"`+strings.Repeat("x", 100)+`"`), domain.CodecMeta{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCodec)
}

func TestCodec_RandFailure(t *testing.T) {
	c := newCodec(t, codec.WithRand(bytes.NewReader(nil)))

	_, err := c.Encode(domain.String("x"), ports.EncodeOptions{Encrypt: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCodec)
}
