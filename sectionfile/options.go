package sectionfile

import (
	"github.com/siwire/siwire/format"
	"github.com/siwire/siwire/report"
)

// Option configures a File at creation time.
type Option func(*File)

// WithCRCMode sets how section checksums are handled when loading binary
// data. The default is format.CRCCheck: a section with a bad checksum fails
// the load.
func WithCRCMode(mode format.CRCMode) Option {
	return func(f *File) {
		f.crcMode = mode
	}
}

// WithCompression selects the compression of saved binary data. The default
// is format.CompressionNone, which writes plain concatenated sections;
// anything else writes the compressed archive framing. Loading detects the
// framing regardless of this option.
func WithCompression(compression format.CompressionType) Option {
	return func(f *File) {
		f.compression = compression
	}
}

// WithReporter directs load and save diagnostics to r. The default discards
// them.
func WithReporter(r report.Reporter) Option {
	return func(f *File) {
		f.reporter = r
	}
}

// WithForceGeneric makes XML output use the generic hex forms for every
// table, including those with a registered codec.
func WithForceGeneric(force bool) Option {
	return func(f *File) {
		f.forceGeneric = force
	}
}
