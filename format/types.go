package format

type (
	CRCMode         uint8
	CompressionType uint8
)

const (
	// CRCIgnore accepts sections regardless of their trailing checksum.
	CRCIgnore CRCMode = 0x1
	// CRCCheck rejects a section (and fails the whole load) on the first
	// checksum mismatch.
	CRCCheck CRCMode = 0x2
	// CRCCompute recomputes the checksum silently, used for programmatic
	// table construction where checksums are always derived, never trusted.
	CRCCompute CRCMode = 0x3

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (m CRCMode) String() string {
	switch m {
	case CRCIgnore:
		return "Ignore"
	case CRCCheck:
		return "Check"
	case CRCCompute:
		return "Compute"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
