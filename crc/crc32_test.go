package crc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute_KnownVectors(t *testing.T) {
	// CRC-32/MPEG-2 reference vector: "123456789" -> 0x0376E6E7.
	require.Equal(t, uint32(0x0376E6E7), Compute([]byte("123456789")))

	// Empty input leaves the accumulator at the initial value.
	require.Equal(t, uint32(0xFFFFFFFF), Compute(nil))
}

func TestUpdate_Incremental(t *testing.T) {
	data := []byte{0x00, 0xB0, 0x0D, 0x00, 0x01, 0xC1, 0x00, 0x00, 0x00, 0x01, 0xF0, 0x00}

	whole := Compute(data)
	part := Update(Compute(data[:5]), data[5:])

	require.Equal(t, whole, part)
}

func TestAppendAndCheck(t *testing.T) {
	data := []byte{0x02, 0xB0, 0x12, 0x00, 0x01, 0xC1, 0x00, 0x00}

	out := Append(append([]byte(nil), data...))
	require.Len(t, out, len(data)+Size)
	require.True(t, Check(out))

	// Corrupting any trailer byte must fail the check.
	out[len(out)-1] ^= 0xFF
	require.False(t, Check(out))
}

func TestCheck_TooShort(t *testing.T) {
	require.False(t, Check([]byte{0x01, 0x02, 0x03}))
}

func TestAppend_TrailerIsBigEndian(t *testing.T) {
	data := []byte{0xAB, 0xCD}
	out := Append(append([]byte(nil), data...))

	require.Equal(t, Compute(data), binary.BigEndian.Uint32(out[len(data):]))
}
