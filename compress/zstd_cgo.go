//go:build siwire_gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses the archive body using the libzstd binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress restores a Zstd-compressed archive body.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
