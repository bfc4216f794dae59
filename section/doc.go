// Package section implements the atomic physical unit of PSI/SI table data:
// the MPEG section, in its short and long forms.
//
// A short section is a 3-byte header followed by a payload and is itself a
// complete logical table. A long section adds a table identity extension,
// versioning fields, its position within a multi-section table, and a
// trailing CRC-32/MPEG-2 checksum:
//
//	short: table_id(1) | flags+length(2) | payload
//	long:  table_id(1) | flags+length(2) | table_id_extension(2) |
//	       reserved/version/current(1) | section_number(1) |
//	       last_section_number(1) | payload | CRC32(4, big-endian)
//
// The 12-bit length field covers everything after itself, up to and
// including the checksum. Bit 7 of the flags byte discriminates long (1)
// from short (0) sections; bit 6 is the private indicator.
//
// Sections are immutable once constructed, except for the attribute string,
// an opaque annotation that survives XML round trips but never affects the
// wire bytes or the checksum.
package section
