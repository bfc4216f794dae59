// Package crc implements the CRC-32 variant used by MPEG PSI/SI long
// sections: polynomial 0x04C11DB7, initial value 0xFFFFFFFF, no input or
// output reflection, no final XOR, big-endian trailer.
//
// The standard library crc32 tables are built for reflected polynomials, so
// the table here is generated for the forward polynomial and the update loop
// consumes the high byte of the accumulator.
package crc

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"
)

const (
	// Size is the byte length of the checksum trailer.
	Size = 4

	// initValue is the accumulator value before the first input byte.
	initValue = 0xFFFFFFFF
)

var mpegTable = makeForwardTable(bits.Reverse32(crc32.IEEE))

// makeForwardTable builds a byte-at-a-time lookup table for the forward
// (non-reflected) form of the given polynomial.
func makeForwardTable(poly uint32) *crc32.Table {
	var t crc32.Table
	for i := range t {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}

	return &t
}

// Update feeds p into the running checksum crc and returns the new value.
func Update(crc uint32, p []byte) uint32 {
	for _, v := range p {
		crc = mpegTable[byte(crc>>24)^v] ^ (crc << 8)
	}

	return crc
}

// Compute returns the checksum of data starting from the initial value.
func Compute(data []byte) uint32 {
	return Update(initValue, data)
}

// Append appends the big-endian checksum of data to data and returns the
// extended slice.
func Append(data []byte) []byte {
	return binary.BigEndian.AppendUint32(data, Compute(data))
}

// Check reports whether the last four bytes of data hold the correct
// big-endian checksum of the preceding bytes. It returns false when data is
// shorter than the trailer itself.
func Check(data []byte) bool {
	if len(data) < Size {
		return false
	}

	want := binary.BigEndian.Uint32(data[len(data)-Size:])

	return Compute(data[:len(data)-Size]) == want
}
