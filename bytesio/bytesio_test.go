package bytesio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/internal/pool"
)

func TestBufferSourceReadsBigEndian(t *testing.T) {
	r := require.New(t)
	src := NewBufferSource([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})

	u16, err := src.ReadU16BE()
	r.NoError(err)
	r.Equal(uint16(0x0102), u16)

	u32, err := src.ReadU32BE()
	r.NoError(err)
	r.Equal(uint32(0x03040506), u32)
}

func TestBufferSourceReadU32BEPastEnd(t *testing.T) {
	r := require.New(t)
	src := NewBufferSource([]byte{0x01, 0x02, 0x03})

	_, err := src.ReadU32BE()
	r.ErrorIs(err, errs.EndOfDataErr)
}

func TestBufferSourceEndOfData(t *testing.T) {
	r := require.New(t)
	src := NewBufferSource([]byte{0xAA})

	_, err := src.ReadU16BE()
	r.Error(err)
	r.ErrorIs(err, errs.EndOfDataErr)
}

func TestBufferSourcePositionAndRemaining(t *testing.T) {
	r := require.New(t)
	src := NewBufferSource([]byte{1, 2, 3, 4})

	r.Equal(int64(0), src.Position())
	r.Equal(int64(4), src.Remaining())

	_, err := src.ReadU8()
	r.NoError(err)
	r.Equal(int64(1), src.Position())
	r.Equal(int64(3), src.Remaining())
}

func TestBoundedBufferSourceCannotReadPastBound(t *testing.T) {
	r := require.New(t)
	backing := []byte{1, 2, 3, 4, 5, 6}
	src := NewBoundedBufferSource(backing, 3)

	b, err := src.ReadBytes(3)
	r.NoError(err)
	r.Equal([]byte{1, 2, 3}, b)

	_, err = src.ReadU8()
	r.ErrorIs(err, errs.EndOfDataErr)
}

func TestStreamSourceRoundTrip(t *testing.T) {
	r := require.New(t)
	data := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 0xFF}
	src := NewStreamSource(bytes.NewReader(data))

	u16, err := src.ReadU16BE()
	r.NoError(err)
	r.Equal(uint16(1), u16)

	u32, err := src.ReadU32BE()
	r.NoError(err)
	r.Equal(uint32(2), u32)

	b, err := src.ReadBytes(1)
	r.NoError(err)
	r.Equal([]byte{0xFF}, b)

	r.Equal(int64(7), src.Position())
}

func TestStreamSourceUnexpectedEOF(t *testing.T) {
	r := require.New(t)
	src := NewStreamSource(bytes.NewReader([]byte{0x01}))

	_, err := src.ReadU16BE()
	r.ErrorIs(err, errs.EndOfDataErr)
}

func TestBufferSinkGrowsAndRoundTrips(t *testing.T) {
	r := require.New(t)
	buf := pool.NewByteBuffer(1)
	sink := NewBufferSink(buf)

	r.NoError(sink.WriteU16BE(0x1234))
	r.NoError(sink.WriteU32BE(0xDEADBEEF))
	r.NoError(sink.WriteBytes([]byte{0x01, 0x02}))

	src := NewBufferSource(sink.Bytes())
	u16, err := src.ReadU16BE()
	r.NoError(err)
	r.Equal(uint16(0x1234), u16)

	u32, err := src.ReadU32BE()
	r.NoError(err)
	r.Equal(uint32(0xDEADBEEF), u32)

	tail, err := src.ReadBytes(2)
	r.NoError(err)
	r.Equal([]byte{0x01, 0x02}, tail)
}

func TestFixedBufferSinkOverflow(t *testing.T) {
	r := require.New(t)
	sink := NewFixedBufferSink(make([]byte, 1))

	err := sink.WriteU16BE(1)
	r.ErrorIs(err, errs.OverflowErr)
}

func TestFixedBufferSinkExactFit(t *testing.T) {
	r := require.New(t)
	sink := NewFixedBufferSink(make([]byte, 2))

	r.NoError(sink.WriteU16BE(0xBEEF))
	r.Equal(int64(2), sink.Position())
}
