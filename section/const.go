package section

import "github.com/siwire/siwire/crc"

const (
	ShortHeaderSize = 3        // table_id + flags/length
	LongHeaderSize  = 8        // short header + extension, version, numbering
	TrailerSize     = crc.Size // CRC-32/MPEG-2, long sections only

	// MaxBodyLength is the largest value representable in the 12-bit section
	// length field minus the 2 reserved values, i.e. the byte count covered
	// by the length field (payload plus, for long sections, the post-length
	// header fields and the checksum).
	MaxBodyLength = 4093

	// MaxPrivateSectionSize is the hard ceiling of any section on the wire.
	MaxPrivateSectionSize = ShortHeaderSize + MaxBodyLength // 4096

	// MaxPSISectionSize is the ceiling of the 1024-byte section class used
	// by the MPEG-defined PSI tables (PAT, CAT, PMT).
	MaxPSISectionSize = 1024

	// MaxShortPayloadSize is the payload capacity of a maximal short section.
	MaxShortPayloadSize = MaxPrivateSectionSize - ShortHeaderSize // 4093

	// MaxLongPayloadSize is the payload capacity of a maximal long section.
	MaxLongPayloadSize = MaxPrivateSectionSize - LongHeaderSize - TrailerSize // 4084

	// MaxPSILongPayloadSize is the payload capacity of a long section in the
	// 1024-byte class. This is the capacity the PSI table codecs split
	// against.
	MaxPSILongPayloadSize = MaxPSISectionSize - LongHeaderSize - TrailerSize // 1012

	// MaxVersion is the largest table version (5-bit field).
	MaxVersion = 31

	// MaxSections is the largest number of sections in one long table
	// (section numbers are 8-bit).
	MaxSections = 256
)

// Flag bits of the byte following table_id.
const (
	syntaxBit   = 0x80 // long section indicator
	privateBit  = 0x40
	reservedHi  = 0x30 // two reserved bits, always set on output
	lengthHiMsk = 0x0F
)
