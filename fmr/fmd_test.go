package fmr

import (
	"testing"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/format"
	"github.com/stretchr/testify/require"
)

func TestFMDFullBitPackRoundTrip(t *testing.T) {
	r := require.New(t)

	cases := []FMD{
		{Type: format.MinutiaOther, X: 0, Y: 0, Angle: 0, Quality: 0},
		{Type: format.MinutiaRidgeEnding, X: 100, Y: 120, Angle: 45, Quality: 80},
		{Type: format.MinutiaBifurcation, X: 16383, Y: 16383, Angle: 179, Quality: 100},
	}

	for _, fmd := range cases {
		var buf [6]byte
		sink := bytesio.NewFixedBufferSink(buf[:])
		r.NoError(fmd.EncodeFMD(sink, format.ANSI))

		src := bytesio.NewBufferSource(buf[:])
		got, err := DecodeFMD(src, format.ANSI)
		r.NoError(err)
		r.Equal(fmd, got)
	}
}

func TestFMDNormalCardOmitsQuality(t *testing.T) {
	r := require.New(t)

	fmd := FMD{Type: format.MinutiaRidgeEnding, X: 50, Y: 60, Angle: 10}

	var buf [5]byte
	sink := bytesio.NewFixedBufferSink(buf[:])
	r.NoError(fmd.EncodeFMD(sink, format.ISONormalCard))

	src := bytesio.NewBufferSource(buf[:])
	got, err := DecodeFMD(src, format.ISONormalCard)
	r.NoError(err)
	r.Equal(uint8(0), got.Quality)
	r.Equal(fmd.X, got.X)
	r.Equal(fmd.Y, got.Y)
}

func TestFMDCompactCardLayout(t *testing.T) {
	r := require.New(t)

	fmd := FMD{Type: format.MinutiaRidgeEnding, X: 10, Y: 20, Angle: 10}

	var buf [3]byte
	sink := bytesio.NewFixedBufferSink(buf[:])
	r.NoError(fmd.EncodeFMD(sink, format.ISOCompactCard))
	r.Equal(byte(10), buf[0])
	r.Equal(byte(20), buf[1])
	r.Equal(byte((1<<6)|10), buf[2])

	src := bytesio.NewBufferSource(buf[:])
	got, err := DecodeFMD(src, format.ISOCompactCard)
	r.NoError(err)
	r.Equal(uint8(0xFF), got.Quality)
	r.Equal(fmd, FMD{Type: got.Type, X: got.X, Y: got.Y, Angle: got.Angle})
}

func TestValidateFMDFlagsOutOfRangeFields(t *testing.T) {
	r := require.New(t)

	fmd := FMD{Type: 9, X: 1000, Y: 1000, Angle: 200, Quality: 255, Reserved: 1}
	res := NewResult()
	ValidateFMD(fmd, FMDContext{Format: format.ANSI, ImageWidth: 500, ImageHeight: 500}, res)

	r.False(res.OK())
	r.GreaterOrEqual(len(res.Findings()), 5)
}

func TestValidateFMDSkipsCardDialects(t *testing.T) {
	r := require.New(t)

	fmd := FMD{Type: 9, X: 65000, Y: 65000, Angle: 250}
	res := NewResult()
	ValidateFMD(fmd, FMDContext{Format: format.ISOCompactCard}, res)

	r.False(res.OK()) // type is still checked
	for _, f := range res.Findings() {
		r.NotContains(f.Field, ".x")
		r.NotContains(f.Field, ".y")
	}
}

func TestAngleDegreesConversion(t *testing.T) {
	r := require.New(t)

	fmd := FMD{Angle: 90}
	r.InDelta(180.0, fmd.AngleDegrees(format.ANSI), 0.001)
	r.InDelta(126.5625, fmd.AngleDegrees(format.ISO), 0.001)
	r.InDelta(506.25, fmd.AngleDegrees(format.ISOCompactCard), 0.001)
}
