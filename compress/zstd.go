package compress

// ZstdCompressor provides Zstandard compression, the default codec of
// compressed section archives. It gives the best ratio of the built-in
// codecs on typical PSI/SI captures, where whole sections repeat across
// snapshots.
//
// Two implementations exist behind the same type: a pure Go one (default)
// and a cgo binding selected with the siwire_gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
