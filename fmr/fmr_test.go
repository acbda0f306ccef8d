package fmr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/fmr"
	"github.com/halvorsen/biomdi/format"
)

// buildS1 assembles spec.md §8 scenario S1 by hand: one ANSI-378 header,
// one FVMR (finger=1, view=0, impression=0, quality=50), two minutiae,
// no FEDB.
func buildS1(t *testing.T) []byte {
	t.Helper()

	var buf []byte
	w := func(b ...byte) { buf = append(buf, b...) }

	w('F', 'M', 'R', 0) // format_id
	w(' ', '2', '0', 0) // spec_version
	w(0x00, 0x32)       // record_length (short) = 50
	w(0x00, 0x1B)       // CBEFF owner
	w(0x02, 0x01)       // CBEFF type
	w(0x00, 0x00)       // compliance/scanner
	w(0x01, 0xF4)       // x_image_size = 500
	w(0x01, 0xF4)       // y_image_size = 500
	w(0x00, 0xC5)       // x_resolution = 197
	w(0x00, 0xC5)       // y_resolution = 197
	w(0x01)             // num_views = 1
	w(0x00)             // reserved

	// FVMR: finger=1, view=0, impression=0, quality=50, 2 minutiae.
	w(0x01)       // finger_number
	w(0x00)       // view<<4 | impression
	w(0x32)       // finger_quality = 50
	w(0x02)       // number_of_minutiae

	// FMD 1: type=1, x=100, y=120, angle=45, quality=80.
	w1 := uint16(1)<<14 | (100 & 0x3FFF)
	w(byte(w1>>8), byte(w1))
	w2 := uint16(0)<<14 | (120 & 0x3FFF)
	w(byte(w2>>8), byte(w2))
	w(45, 80)

	// FMD 2: type=2, x=200, y=240, angle=90, quality=60.
	w3 := uint16(2)<<14 | (200 & 0x3FFF)
	w(byte(w3>>8), byte(w3))
	w4 := uint16(0)<<14 | (240 & 0x3FFF)
	w(byte(w4>>8), byte(w4))
	w(90, 60)

	w(0x00, 0x00) // FEDB block_length = 0

	return buf
}

func TestS1ANSISingleView(t *testing.T) {
	r := require.New(t)

	data := buildS1(t)
	src := bytesio.NewBufferSource(data)

	fmrec, err := fmr.Decode(src, format.ANSI)
	r.NoError(err)
	r.Len(fmrec.Views, 1)
	r.Len(fmrec.Views[0].Minutiae, 2)
	r.Equal(uint8(1), fmrec.Views[0].FingerNumber)
	r.Equal(uint8(0), fmrec.Views[0].ViewNumber)
	r.False(fmrec.Views[0].FEDBPresent)

	v, err := fmr.NewValidator()
	r.NoError(err)
	res := v.Validate(fmrec)
	r.True(res.OK(), "findings: %v", res.Findings())

	buf := newByteBuffer()
	sink := bytesio.NewBufferSink(buf)
	r.NoError(fmrec.Encode(sink))
	r.Equal(data, sink.Bytes(), "round-trip must be byte-exact")
}

func TestS2ISOCompactCard(t *testing.T) {
	r := require.New(t)

	var data []byte
	data = append(data, 10, 20, (1<<6)|10) // type=1, x=10, y=20, angle=10
	data = append(data, 30, 40, (2<<6)|20) // type=2, x=30, y=40, angle=20
	data = append(data, 50, 60, (0<<6)|30) // type=0, x=50, y=60, angle=30

	src := bytesio.NewBufferSource(data)
	fmrec, err := fmr.Decode(src, format.ISOCompactCard)
	r.NoError(err)
	r.Len(fmrec.Views, 1)
	r.Len(fmrec.Views[0].Minutiae, 3)

	fmrec.RecomputeCardLength()
	r.Equal(uint32(9), fmrec.RecordLength)

	for _, m := range fmrec.Views[0].Minutiae {
		r.Equal(uint8(0xFF), m.Quality)
	}
	r.Equal(uint8(10), fmrec.Views[0].Minutiae[0].Angle)
	r.Equal(uint8(20), fmrec.Views[0].Minutiae[1].Angle)
	r.Equal(uint8(30), fmrec.Views[0].Minutiae[2].Angle)
}

func TestS3ViewNumberGapIsInvalid(t *testing.T) {
	r := require.New(t)

	data := buildS1(t)
	// Patch num_views to 3 and record_length accordingly isn't required for
	// decode (ANSI-378 short header's record_length is read, not enforced
	// byte-for-byte against the body here); append a second FVMR for the
	// same finger=2 with view=0, then another with view=2 (gap).
	data[24] = 0x03 // num_views = 3 (offset of num_views byte, see buildS1)

	var second []byte
	app := func(b ...byte) { second = append(second, b...) }
	app(0x02)       // finger_number = 2
	app(0x00)       // view=0, impression=0
	app(0x32)       // quality
	app(0x00)       // number_of_minutiae = 0
	app(0x00, 0x00) // FEDB absent

	app(0x02)       // finger_number = 2 again
	app(0x20)       // view=2, impression=0 (gap: expected 1)
	app(0x32)       // quality
	app(0x00)       // number_of_minutiae = 0
	app(0x00, 0x00) // FEDB absent

	data = append(data, second...)

	src := bytesio.NewBufferSource(data)
	fmrec, err := fmr.Decode(src, format.ANSI)
	r.NoError(err, "decode must succeed even though the view sequence is invalid")
	r.Len(fmrec.Views, 3)

	v, err := fmr.NewValidator()
	r.NoError(err)
	res := v.Validate(fmrec)
	r.False(res.OK())

	var sawGap bool
	for _, f := range res.Findings() {
		if f.Field == ".view_number" {
			sawGap = true
		}
	}
	r.True(sawGap, "expected a view_number finding, got: %v", res.Findings())
}

func TestS4TruncationSalvage(t *testing.T) {
	r := require.New(t)

	data := buildS1(t)
	data[24] = 0x02 // num_views = 2 (offset of num_views byte, see buildS1)

	var second []byte
	app := func(b ...byte) { second = append(second, b...) }
	app(0x02)       // finger_number = 2
	app(0x00)       // view=0, impression=0
	app(0x32)       // quality
	app(0x00)       // number_of_minutiae = 0
	app(0x00, 0x05) // FEDB block_length = 5, declares a FED that never arrives

	data = append(data, second...)

	src := bytesio.NewBufferSource(data)
	fmrec, err := fmr.Decode(src, format.ANSI)

	r.Error(err)
	r.True(errs.IsPartial(err), "expected a partial EndOfData error, got %v", err)
	r.True(fmrec.Truncated)
	r.Len(fmrec.Views, 2)
	r.True(fmrec.Views[1].FEDBPartial)

	v, err := fmr.NewValidator()
	r.NoError(err)
	res := v.Validate(fmrec)
	r.False(res.OK())

	var sawLenMismatch bool
	for _, f := range res.Findings() {
		if f.Field == ".block_length" {
			sawLenMismatch = true
		}
	}
	r.True(sawLenMismatch, "expected an FEDB block_length finding, got: %v", res.Findings())
}

// byteBuffer is the minimal bufferWriter bytesio.NewBufferSink needs;
// tests use a plain growable slice rather than pulling in internal/pool.
type byteBuffer struct {
	b []byte
}

func newByteBuffer() *byteBuffer { return &byteBuffer{} }

func (w *byteBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *byteBuffer) Bytes() []byte { return w.b }
