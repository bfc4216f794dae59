package section

import (
	"encoding/binary"
	"fmt"

	"github.com/siwire/siwire/crc"
	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/format"
	"github.com/siwire/siwire/internal/hash"
)

// Section is one physical PSI/SI section, short or long form.
//
// A Section is constructed either by parsing wire bytes (Parse) or from
// explicit field values (New, NewLong). Header fields and payload are fixed
// at construction; only the attribute annotation may be changed afterwards.
type Section struct {
	payload   []byte
	attribute string

	tableID    uint8
	tableIDExt uint16
	version    uint8
	number     uint8
	lastNumber uint8

	long    bool
	private bool
	current bool
	crcOK   bool
}

// New builds a short section from explicit field values.
//
// Returns errs.ErrPayloadTooLong if the payload cannot be represented within
// the 12-bit section length field.
func New(tableID uint8, isPrivate bool, payload []byte) (*Section, error) {
	if len(payload) > MaxShortPayloadSize {
		return nil, fmt.Errorf("table id 0x%02X: short payload %d bytes: %w", tableID, len(payload), errs.ErrPayloadTooLong)
	}

	return &Section{
		tableID: tableID,
		private: isPrivate,
		payload: append([]byte(nil), payload...),
		crcOK:   true,
	}, nil
}

// NewLong builds a long section from explicit field values. The checksum is
// not materialized until the section is serialized.
//
// Returns errs.ErrMalformedSection if version exceeds 31 or number exceeds
// lastNumber, and errs.ErrPayloadTooLong if the payload does not fit the
// length field.
func NewLong(tableID uint8, isPrivate bool, tableIDExt uint16, version uint8, current bool, number, lastNumber uint8, payload []byte) (*Section, error) {
	if version > MaxVersion {
		return nil, fmt.Errorf("table id 0x%02X: version %d: %w", tableID, version, errs.ErrMalformedSection)
	}
	if number > lastNumber {
		return nil, fmt.Errorf("table id 0x%02X: section %d of %d: %w", tableID, number, lastNumber, errs.ErrMalformedSection)
	}
	if len(payload) > MaxLongPayloadSize {
		return nil, fmt.Errorf("table id 0x%02X: long payload %d bytes: %w", tableID, len(payload), errs.ErrPayloadTooLong)
	}

	return &Section{
		tableID:    tableID,
		private:    isPrivate,
		tableIDExt: tableIDExt,
		version:    version,
		current:    current,
		number:     number,
		lastNumber: lastNumber,
		payload:    append([]byte(nil), payload...),
		long:       true,
		crcOK:      true,
	}, nil
}

// Parse reads one section from data starting at offset and returns it along
// with the offset of the first byte past it.
//
// The CRC mode governs the trailing checksum of long sections:
//   - format.CRCIgnore: the section is returned regardless; CRCOK reports
//     the comparison result.
//   - format.CRCCheck: on mismatch the section is still returned, flagged
//     invalid, together with errs.ErrBadChecksum.
//   - format.CRCCompute: the checksum is not trusted from input and is
//     treated as derived; CRCOK reports true.
//
// Structural failures return errs.ErrMalformedSection or
// errs.ErrTruncatedSection with the byte offset in the message.
func Parse(data []byte, offset int, mode format.CRCMode) (*Section, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, offset, fmt.Errorf("offset %d out of range: %w", offset, errs.ErrMalformedSection)
	}
	b := data[offset:]
	if len(b) < ShortHeaderSize {
		return nil, offset, fmt.Errorf("offset %d: %d header bytes: %w", offset, len(b), errs.ErrTruncatedSection)
	}

	tableID := b[0]
	long := b[1]&syntaxBit != 0
	private := b[1]&privateBit != 0
	length := int(b[1]&lengthHiMsk)<<8 | int(b[2])
	if length > MaxBodyLength {
		return nil, offset, fmt.Errorf("offset %d: table id 0x%02X: declared length %d: %w", offset, tableID, length, errs.ErrMalformedSection)
	}

	total := ShortHeaderSize + length
	if len(b) < total {
		return nil, offset, fmt.Errorf("offset %d: table id 0x%02X: %d of %d bytes: %w", offset, tableID, len(b), total, errs.ErrTruncatedSection)
	}
	wire := b[:total]
	next := offset + total

	if !long {
		s := &Section{
			tableID: tableID,
			private: private,
			payload: append([]byte(nil), wire[ShortHeaderSize:]...),
			crcOK:   true,
		}

		return s, next, nil
	}

	// Long form: extension, version/current, numbering, payload, CRC32.
	if length < LongHeaderSize-ShortHeaderSize+TrailerSize {
		return nil, offset, fmt.Errorf("offset %d: table id 0x%02X: long body %d bytes: %w", offset, tableID, length, errs.ErrMalformedSection)
	}

	s := &Section{
		tableID:    tableID,
		private:    private,
		tableIDExt: binary.BigEndian.Uint16(wire[3:5]),
		version:    (wire[5] >> 1) & 0x1F,
		current:    wire[5]&0x01 != 0,
		number:     wire[6],
		lastNumber: wire[7],
		payload:    append([]byte(nil), wire[LongHeaderSize:total-TrailerSize]...),
		long:       true,
	}
	if s.number > s.lastNumber {
		return nil, offset, fmt.Errorf("offset %d: table id 0x%02X: section %d of %d: %w", offset, tableID, s.number, s.lastNumber, errs.ErrMalformedSection)
	}

	switch mode {
	case format.CRCCompute:
		s.crcOK = true
	default:
		s.crcOK = crc.Check(wire)
		if !s.crcOK && mode == format.CRCCheck {
			return s, next, fmt.Errorf("offset %d: table id 0x%02X section %d: %w", offset, tableID, s.number, errs.ErrBadChecksum)
		}
	}

	return s, next, nil
}

// Bytes returns the exact wire byte sequence of the section. For long
// sections the checksum is recomputed over header and payload at this point.
func (s *Section) Bytes() []byte {
	out := make([]byte, 0, s.Size())

	flags := byte(reservedHi)
	if s.private {
		flags |= privateBit
	}

	if !s.long {
		length := len(s.payload)
		out = append(out, s.tableID, flags|byte(length>>8), byte(length))
		out = append(out, s.payload...)

		return out
	}

	length := len(s.payload) + (LongHeaderSize - ShortHeaderSize) + TrailerSize
	verByte := 0xC0 | (s.version << 1)
	if s.current {
		verByte |= 0x01
	}
	out = append(out, s.tableID, flags|syntaxBit|byte(length>>8), byte(length))
	out = binary.BigEndian.AppendUint16(out, s.tableIDExt)
	out = append(out, verByte, s.number, s.lastNumber)
	out = append(out, s.payload...)

	return crc.Append(out)
}

// Size returns the total wire size of the section, including the header and,
// for long sections, the checksum trailer.
func (s *Section) Size() int {
	if s.long {
		return LongHeaderSize + len(s.payload) + TrailerSize
	}

	return ShortHeaderSize + len(s.payload)
}

// PayloadSize returns the number of payload bytes, excluding headers and the
// checksum trailer.
func (s *Section) PayloadSize() int {
	return len(s.payload)
}

// Payload returns the section payload. The returned slice is owned by the
// section and must not be modified.
func (s *Section) Payload() []byte {
	return s.payload
}

func (s *Section) TableID() uint8  { return s.tableID }
func (s *Section) IsShort() bool   { return !s.long }
func (s *Section) IsLong() bool    { return s.long }
func (s *Section) IsPrivate() bool { return s.private }

// TableIDExtension returns the table_id_extension of a long section, zero
// for short sections.
func (s *Section) TableIDExtension() uint16 { return s.tableIDExt }

// Version returns the 5-bit table version of a long section.
func (s *Section) Version() uint8 { return s.version }

// IsCurrent reports the current/next indicator of a long section.
func (s *Section) IsCurrent() bool { return s.current }

func (s *Section) SectionNumber() uint8     { return s.number }
func (s *Section) LastSectionNumber() uint8 { return s.lastNumber }

// CRCOK reports whether the trailing checksum was valid at parse time, or
// derived locally for built sections. Always true for short sections.
func (s *Section) CRCOK() bool { return s.crcOK }

// Attribute returns the opaque annotation attached to the section. The
// annotation survives XML round trips but never affects the wire bytes.
func (s *Section) Attribute() string { return s.attribute }

// SetAttribute attaches an opaque annotation to the section.
func (s *Section) SetAttribute(attr string) { s.attribute = attr }

// Fingerprint returns the xxHash64 of the section's wire bytes. Two sections
// with equal content share a fingerprint regardless of their attributes.
func (s *Section) Fingerprint() uint64 {
	return hash.Fingerprint(s.Bytes())
}

// EqualContent reports field-for-field wire equality with o, ignoring the
// attribute annotation.
func (s *Section) EqualContent(o *Section) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.tableID != o.tableID || s.long != o.long || s.private != o.private {
		return false
	}
	if s.long && (s.tableIDExt != o.tableIDExt || s.version != o.version ||
		s.current != o.current || s.number != o.number || s.lastNumber != o.lastNumber) {
		return false
	}
	if len(s.payload) != len(o.payload) {
		return false
	}
	for i := range s.payload {
		if s.payload[i] != o.payload[i] {
			return false
		}
	}

	return true
}

// Equal reports structural equality with o: wire equality plus equal
// attribute annotations. This is the equality used for XML comparison.
func (s *Section) Equal(o *Section) bool {
	return s.EqualContent(o) && (s == nil || s.attribute == o.attribute)
}
