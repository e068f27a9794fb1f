package ports

import "go.trai.ch/assetcache/internal/core/domain"

// EncodeOptions selects the optional stages of the codec pipeline.
type EncodeOptions struct {
	Compress bool
	Encrypt  bool
}

// Encoded is the output of the codec pipeline.
type Encoded struct {
	// Bytes is what gets written to the entry file.
	Bytes []byte
	// OriginalSize is the length of the serialized artifact before compression and encryption.
	OriginalSize int64
	// Meta records which stages ran and the key material needed to reverse them.
	Meta domain.CodecMeta
}

// Codec serializes artifacts to bytes and back.
//
//go:generate mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type Codec interface {
	// Encode runs serialize, then optionally compress, then optionally encrypt.
	Encode(artifact domain.Value, opts EncodeOptions) (Encoded, error)
	// Decode reverses Encode using the flags and key material recorded for the entry.
	// Every failure wraps domain.ErrCodec.
	Decode(data []byte, meta domain.CodecMeta) (domain.Value, error)
}
