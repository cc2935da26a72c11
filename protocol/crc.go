package protocol

// ecmaPoly is the CRC-64/ECMA-182 polynomial in normal (MSB-first) form,
// the checksum OpenIGTLink's body CRC field carries (init 0, no
// reflection, no final XOR). hash/crc64's ECMA table is not used: it
// runs the reflected algorithm with inverted init and output
// (CRC-64/XZ), which gives a different checksum for the same bytes.
const ecmaPoly = 0x42F0E1EBA9EA3693

// CRC64 computes the CRC-64/ECMA-182 checksum of data (everything in a
// frame after the 58-byte header: extended header, if any, plus body,
// plus metadata, if any).
func CRC64(data []byte) uint64 {
	var crc uint64
	for _, b := range data {
		crc ^= uint64(b) << 56
		for i := 0; i < 8; i++ {
			mask := -(crc >> 63)
			crc = crc<<1 ^ ecmaPoly&mask
		}
	}
	return crc
}

// VerifyCRC64 reports whether data's computed CRC-64 matches expected.
func VerifyCRC64(data []byte, expected uint64) bool {
	return CRC64(data) == expected
}
