// Package errs defines the sentinel errors shared across the siwire module.
//
// All parse, build and I/O failures wrap one of these values so that callers
// can classify failures with errors.Is while still receiving contextual
// detail (byte offset, table id, section number) from the wrapping message.
package errs

import "errors"

// Section parse and build errors.
var (
	// ErrMalformedSection reports header fields out of range or a declared
	// section length that exceeds the wire format limits.
	ErrMalformedSection = errors.New("malformed section")

	// ErrTruncatedSection reports fewer bytes available than the declared
	// section length.
	ErrTruncatedSection = errors.New("truncated section")

	// ErrBadChecksum reports a CRC32 mismatch on a long section. It is fatal
	// only under format.CRCCheck validation mode.
	ErrBadChecksum = errors.New("bad section checksum")

	// ErrPayloadTooLong reports a payload that cannot be represented within
	// the 12-bit section length field.
	ErrPayloadTooLong = errors.New("section payload too long")
)

// Table assembly errors.
var (
	// ErrSectionMismatch reports an attempt to add a section to a table with
	// a different identity (table id, extension or version), or a section
	// number already present in the table.
	ErrSectionMismatch = errors.New("section does not belong to table")

	// ErrInvalidTable reports an operation on a table whose sections do not
	// form the contiguous set 0..last_section_number, or an empty table.
	ErrInvalidTable = errors.New("invalid binary table")

	// ErrInconsistentTable reports sections claiming membership in one table
	// that disagree on identity or on the repeated fixed fields.
	ErrInconsistentTable = errors.New("inconsistent table sections")

	// ErrOversizeUnit reports a single atomic unit (descriptor or entry)
	// whose encoded size alone exceeds the section payload capacity.
	ErrOversizeUnit = errors.New("atomic unit exceeds section capacity")

	// ErrTooManySections reports a logical table that would require more
	// than 256 sections.
	ErrTooManySections = errors.New("too many sections in table")
)

// XML mapping errors.
var (
	// ErrInvalidXML reports a structural mismatch between the expected and
	// found XML elements or attributes.
	ErrInvalidXML = errors.New("invalid XML structure")
)

// Codec registry and file errors.
var (
	// ErrUnknownTableID reports a table id with no registered codec when a
	// specific codec was required.
	ErrUnknownTableID = errors.New("no codec registered for table id")

	// ErrUnknownCompression reports an unrecognized compression codec byte
	// in a compressed section archive.
	ErrUnknownCompression = errors.New("unknown compression type")

	// ErrResourceNotFound reports a named configuration resource that could
	// not be located on the search path.
	ErrResourceNotFound = errors.New("configuration resource not found")
)
