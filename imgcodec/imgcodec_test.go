package imgcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawCodecRoundTrip(t *testing.T) {
	r := require.New(t)
	reg := NewRegistry()

	blob := []byte{1, 2, 3, 4}
	px, err := reg.Decode(Raw, blob, 2, 2, 8)
	r.NoError(err)
	r.Equal(2, px.Width)
	r.Equal(2, px.Height)
	r.Equal(8, px.Depth)
	r.Equal(blob, px.Pixels)

	out, err := reg.Encode(Raw, px)
	r.NoError(err)
	r.Equal(blob, out)
}

func TestUnregisteredAlgorithmErrors(t *testing.T) {
	r := require.New(t)
	reg := NewRegistry()

	_, err := reg.Decode(WSQ, []byte{1}, 1, 1, 8)
	r.Error(err)
}

type fakeCodec struct{ calls int }

func (f *fakeCodec) Decode(blob []byte, width, height, depth int) (Pixmap, error) {
	f.calls++
	return Pixmap{Width: width, Height: height, Depth: depth, Pixels: blob}, nil
}

func (f *fakeCodec) Encode(p Pixmap) ([]byte, error) {
	return p.Pixels, nil
}

func TestRegisterOverridesLookup(t *testing.T) {
	r := require.New(t)
	reg := NewRegistry()
	fc := &fakeCodec{}
	reg.Register(WSQ, fc)

	_, err := reg.Decode(WSQ, []byte{9, 9}, 3, 3, 8)
	r.NoError(err)
	r.Equal(1, fc.calls)
}
