package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of a section's wire bytes. It is used to
// detect duplicate sections during section-file folding.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// TableKey derives the fold-index key for a long table identity. The version
// participates in the key so that the same table_id_extension reused across
// distinct versions never collides into one pending table.
func TableKey(tableID uint8, tableIDExt uint16, version uint8) uint64 {
	var b [4]byte
	b[0] = tableID
	b[1] = byte(tableIDExt >> 8)
	b[2] = byte(tableIDExt)
	b[3] = version

	return xxhash.Sum64(b[:])
}
