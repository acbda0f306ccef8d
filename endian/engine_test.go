package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndiannessMatchesHost(t *testing.T) {
	r := require.New(t)
	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		r.Equal(binary.BigEndian, result)
	case 0x02:
		r.Equal(binary.LittleEndian, result)
	default:
		r.Failf("unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestCheckEndiannessConsistency(t *testing.T) {
	first := CheckEndianness()
	for range 100 {
		require.Equal(t, first, CheckEndianness())
	}
}

func TestIsNativeLittleAndBigEndianAreExclusive(t *testing.T) {
	r := require.New(t)
	r.NotEqual(IsNativeLittleEndian(), IsNativeBigEndian())
}
