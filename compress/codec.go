package compress

import (
	"fmt"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/format"
)

// Compressor compresses a complete section archive body in one call.
//
// The returned slice is newly allocated and owned by the caller; the input
// is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a section archive body compressed with the matching
// Compressor. Corrupted or mismatched input returns an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Archive readers and writers hold a single
// Codec selected by the archive header's compression byte.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a new Codec for the given compression type. target
// names the caller's context in error messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%s: compression %s: %w", target, compressionType, errs.ErrUnknownCompression)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compression %s: %w", compressionType, errs.ErrUnknownCompression)
}
