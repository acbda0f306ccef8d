// Package endian detects the host's native byte order.
//
// biomdi's wire format is always big-endian (spec.md §6); bytesio never
// branches on host order. This package only reports the host order; the
// codec packages and their tests do not call it.
//
// Adapted from the teacher's endian package, trimmed to the host-order
// probe; the EndianEngine abstraction itself (a swappable ByteOrder) has
// no role here since the wire format never varies.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// CheckEndianness uses a fixed integer value to determine the host's
// byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host is big-endian.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}
