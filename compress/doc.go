// Package compress provides the compression codecs used by compressed
// section archives.
//
// A section archive is a concatenation of binary sections; its byte stream
// is highly repetitive (shared headers, zero-padded descriptors, repeated
// PIDs), so even fast codecs reach good ratios. Four codecs are available:
//
//   - None: pass-through, for interoperability with plain .bin files
//   - Zstd: best ratio, the default for archival
//   - S2: fastest, for large capture dumps moved between tools
//   - LZ4: fast with moderate ratio, for streaming pipelines
//
// All codecs are safe for concurrent use.
package compress
