// Package codec implements the entry serialization pipeline: JSON, then optional zstd
// compression, then optional XChaCha20-Poly1305 sealing.
package codec

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// DefaultMaxDecodedBytes bounds the size of a decompressed payload (1 GiB).
	DefaultMaxDecodedBytes uint64 = 1 << 30
	// KeySize is the length of the per-entry key material.
	KeySize = chacha20poly1305.KeySize
)

// Codec implements ports.Codec.
type Codec struct {
	minCompress int
	maxDecoded  uint64
	rand        io.Reader
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
}

// Option configures a Codec.
type Option func(*Codec)

// WithMinCompressBytes sets the serialized size a payload must exceed before compression is tried.
func WithMinCompressBytes(n int) Option {
	return func(c *Codec) { c.minCompress = n }
}

// WithMaxDecodedBytes bounds the size a payload may decompress to.
func WithMaxDecodedBytes(n uint64) Option {
	return func(c *Codec) { c.maxDecoded = n }
}

// WithRand sets the source of key material and nonces.
func WithRand(r io.Reader) Option {
	return func(c *Codec) { c.rand = r }
}

// New creates a Codec.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		minCompress: domain.DefaultMinCompressBytes,
		maxDecoded:  DefaultMaxDecodedBytes,
		rand:        rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(c.maxDecoded))
	if err != nil {
		_ = enc.Close()
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}
	c.encoder = enc
	c.decoder = dec
	return c, nil
}

// Close releases the compressor resources.
func (c *Codec) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}

// Encode serializes artifact and applies the requested stages.
func (c *Codec) Encode(artifact domain.Value, opts ports.EncodeOptions) (ports.Encoded, error) {
	raw, err := json.Marshal(artifact)
	if err != nil {
		return ports.Encoded{}, codecError(err, "failed to serialize artifact")
	}

	out := ports.Encoded{Bytes: raw, OriginalSize: int64(len(raw))}

	if opts.Compress && len(raw) > c.minCompress {
		compressed := c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
		if len(compressed) < len(raw) {
			out.Bytes = compressed
			out.Meta.Compressed = true
		}
	}

	if opts.Encrypt {
		key := make([]byte, KeySize)
		if _, err := io.ReadFull(c.rand, key); err != nil {
			return ports.Encoded{}, codecError(err, "failed to generate key material")
		}
		sealed, err := c.seal(key, out.Bytes)
		if err != nil {
			return ports.Encoded{}, err
		}
		out.Bytes = sealed
		out.Meta.Encrypted = true
		out.Meta.KeyMaterial = key
	}

	return out, nil
}

// Decode reverses Encode.
func (c *Codec) Decode(data []byte, meta domain.CodecMeta) (domain.Value, error) {
	payload := data

	if meta.Encrypted {
		opened, err := c.open(meta.KeyMaterial, payload)
		if err != nil {
			return domain.Value{}, err
		}
		payload = opened
	}

	if meta.Compressed {
		decoded, err := c.decoder.DecodeAll(payload, nil)
		if err != nil {
			return domain.Value{}, codecError(err, "failed to decompress payload")
		}
		payload = decoded
	}

	if uint64(len(payload)) > c.maxDecoded {
		return domain.Value{}, codecError(errors.New("payload exceeds decode limit"), "failed to decode payload")
	}

	var v domain.Value
	if err := json.Unmarshal(payload, &v); err != nil {
		return domain.Value{}, codecError(err, "failed to deserialize artifact")
	}
	return v, nil
}

func (c *Codec) seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, codecError(err, "failed to create cipher")
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, codecError(err, "failed to generate nonce")
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *Codec) open(key, sealed []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, codecError(errors.New("invalid key material length"), "failed to open payload")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, codecError(err, "failed to create cipher")
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, codecError(errors.New("sealed payload too short"), "failed to open payload")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, codecError(err, "failed to open payload")
	}
	return plaintext, nil
}

func codecError(err error, msg string) error {
	return errors.Join(domain.ErrCodec, zerr.Wrap(err, msg))
}
