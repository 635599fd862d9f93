package pi30

// CCITT CRC-16 nibble table.
var crcTable = [16]uint16{
	0x0000, 0x1021, 0x2042, 0x3063, 0x4084, 0x50A5, 0x60C6, 0x70E7,
	0x8108, 0x9129, 0xA14A, 0xB16B, 0xC18C, 0xD1AD, 0xE1CE, 0xF1EF,
}

// reserved reports whether a CRC byte collides with a byte the wire framing
// reserves. Colliding bytes are bumped by one so a checksum never embeds a
// frame delimiter.
func reserved(b byte) bool {
	return b == 0x28 || b == 0x0D || b == 0x0A
}

// checksum computes the PI30 CRC over data and returns the two checksum
// bytes in wire order (high, low), with reserved bytes bumped.
func checksum(data []byte) (byte, byte) {
	var crc uint16
	for _, c := range data {
		da := byte(crc>>8) >> 4
		crc <<= 4
		crc ^= crcTable[da^(c>>4)]
		da = byte(crc>>8) >> 4
		crc <<= 4
		crc ^= crcTable[da^(c&0x0F)]
	}

	lo := byte(crc)
	hi := byte(crc >> 8)
	if reserved(lo) {
		lo++
	}
	if reserved(hi) {
		hi++
	}
	return hi, lo
}
