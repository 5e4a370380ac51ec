// Package buf contains little-endian encoding and bounds helpers used by the
// allocator's export encoders.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// PutU16LE writes v at b[off:off+2]. Returns false when the slot does not fit.
func PutU16LE(b []byte, off int, v uint16) bool {
	if !Has(b, off, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(b[off:], v)
	return true
}

// AppendU16LE appends the little-endian encoding of every value in vs.
func AppendU16LE(dst []byte, vs ...uint16) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint16(dst, v)
	}
	return dst
}

// U16sLE decodes consecutive little-endian uint16 values from b.
// A trailing odd byte is ignored.
func U16sLE(b []byte) []uint16 {
	out := make([]uint16, 0, len(b)/2)
	for off := 0; off+2 <= len(b); off += 2 {
		out = append(out, binary.LittleEndian.Uint16(b[off:]))
	}
	return out
}
