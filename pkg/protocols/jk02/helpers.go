package jk02

import (
	"encoding/binary"
	"math"
)

// crc8 computes the JK frame checksum: the byte sum truncated to 8 bits.
func crc8(data []byte) byte {
	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum)
}

// decode2ByteHex reads a little-endian 16-bit value scaled by 1/1000,
// the encoding JK uses for cell voltages.
func decode2ByteHex(b []byte) float64 {
	return float64(binary.LittleEndian.Uint16(b)) / 1000
}

// decode4ByteHex reads a little-endian IEEE 754 single-precision float.
func decode4ByteHex(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
