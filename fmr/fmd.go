package fmr

import (
	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// FMD is one finger minutia datum: a minutia type, a coordinate pair, an
// angle, and a quality score. The on-wire representation varies by
// dialect (spec.md §4.2); the in-memory shape is dialect-independent.
//
// Grounded on original_source/biomdi/lib/fmd.c: read_ansi_iso_fmd and
// read_iso_compact_fmd pack/unpack these same five fields, differing
// only in byte width and bit layout.
type FMD struct {
	Type     format.MinutiaType
	X        uint16
	Y        uint16
	Reserved uint8 // top 2 bits of word 1 in the full-dialect layout; must be 0, preserved for exact round-trip otherwise
	Angle    uint8
	Quality  uint8 // card-compact dialect stores 0xFF ("unknown") rather than a real score
}

// fmdCoordMask/fmdTypeShift match the ANSI/ISO full layout's 14-bit coordinate field and
// 2-bit tag field packed into a big-endian u16, per fmd.c's
// FMD_ANSI_X_COORD_MASK / FMD_ANSI_TYPE_MASK pairing.
const (
	fmdCoordMask = 0x3FFF
	fmdTypeShift = 14
)

// DecodeFMD reads one FMD from src using the wire layout for fs.
func DecodeFMD(src bytesio.Source, fs format.FormatStandard) (FMD, error) {
	if fs == format.ISOCompactCard {
		return decodeCompactFMD(src)
	}

	return decodeFullFMD(src, fs)
}

func decodeFullFMD(src bytesio.Source, fs format.FormatStandard) (FMD, error) {
	var fmd FMD

	w0, err := src.ReadU16BE()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD word 0").In("FMD", ".word0")
	}

	w1, err := src.ReadU16BE()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD word 1").In("FMD", ".word1")
	}

	fmd.Type = format.MinutiaType(w0 >> fmdTypeShift)
	fmd.X = w0 & fmdCoordMask
	fmd.Reserved = uint8(w1 >> fmdTypeShift)
	fmd.Y = w1 & fmdCoordMask

	angle, err := src.ReadU8()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD angle").In("FMD", ".angle")
	}
	fmd.Angle = angle

	if fs == format.ISONormalCard {
		fmd.Quality = 0
		return fmd, nil
	}

	quality, err := src.ReadU8()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD quality").In("FMD", ".quality")
	}
	fmd.Quality = quality

	return fmd, nil
}

func decodeCompactFMD(src bytesio.Source) (FMD, error) {
	var fmd FMD

	x, err := src.ReadU8()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD x").In("FMD", ".x")
	}

	y, err := src.ReadU8()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD y").In("FMD", ".y")
	}

	tb, err := src.ReadU8()
	if err != nil {
		return fmd, errs.Wrap(errs.EndOfData, err, "FMD type/angle byte").In("FMD", ".typeangle")
	}

	fmd.X = uint16(x)
	fmd.Y = uint16(y)
	fmd.Type = format.MinutiaType(tb >> 6)
	fmd.Angle = tb & 0x3F
	fmd.Quality = 0xFF

	return fmd, nil
}

// EncodeFMD writes fmd to sink using the wire layout for fs.
func (fmd FMD) EncodeFMD(sink bytesio.Sink, fs format.FormatStandard) error {
	if fs == format.ISOCompactCard {
		return fmd.encodeCompact(sink)
	}

	return fmd.encodeFull(sink, fs)
}

func (fmd FMD) encodeFull(sink bytesio.Sink, fs format.FormatStandard) error {
	w0 := (uint16(fmd.Type) << fmdTypeShift) | (fmd.X & fmdCoordMask)
	if err := sink.WriteU16BE(w0); err != nil {
		return err
	}

	w1 := (uint16(fmd.Reserved) << fmdTypeShift) | (fmd.Y & fmdCoordMask)
	if err := sink.WriteU16BE(w1); err != nil {
		return err
	}

	if err := sink.WriteU8(fmd.Angle); err != nil {
		return err
	}

	if fs == format.ISONormalCard {
		return nil
	}

	return sink.WriteU8(fmd.Quality)
}

func (fmd FMD) encodeCompact(sink bytesio.Sink) error {
	if err := sink.WriteU8(byte(fmd.X)); err != nil {
		return err
	}

	if err := sink.WriteU8(byte(fmd.Y)); err != nil {
		return err
	}

	tb := (byte(fmd.Type) << 6) | (fmd.Angle & 0x3F)

	return sink.WriteU8(tb)
}

// angleUnitDegrees returns the size, in degrees, of one raw angle unit for
// fs, per spec.md §4.2's conversion table. Used only for display/
// comparison; the stored value itself is never altered by unit.
func angleUnitDegrees(fs format.FormatStandard) float64 {
	switch fs {
	case format.ISOCompactCard:
		return 360.0 / 64.0
	case format.ISO, format.ISONormalCard:
		return 360.0 / 256.0
	default:
		return 2.0
	}
}

// AngleDegrees converts the raw stored angle to degrees for display.
func (fmd FMD) AngleDegrees(fs format.FormatStandard) float64 {
	return float64(fmd.Angle) * angleUnitDegrees(fs)
}

// FMDContext supplies the enclosing-record facts an FMD needs to validate
// its coordinates, mirroring fmd.c's dependence on the parent FVMR/FMR's
// image_size fields.
type FMDContext struct {
	Format      format.FormatStandard
	ImageWidth  int
	ImageHeight int
}

// ValidateFMD checks fmd against spec.md §4.2. Card dialects skip the
// coordinate and reserved checks (cards carry no image-size context and
// no reserved bits). The type and quality checks apply to every dialect;
// the 0..179 angle check applies to ANSI and ANSI-2007 only.
func ValidateFMD(fmd FMD, ctx FMDContext, res *Result) {
	if !ctx.Format.IsCardFormat() {
		if ctx.ImageWidth > 0 && int(fmd.X) > ctx.ImageWidth-1 {
			res.Add("FMD", ".x", "x coordinate %d exceeds image width-1 %d", fmd.X, ctx.ImageWidth-1)
		}

		if ctx.ImageHeight > 0 && int(fmd.Y) > ctx.ImageHeight-1 {
			res.Add("FMD", ".y", "y coordinate %d exceeds image height-1 %d", fmd.Y, ctx.ImageHeight-1)
		}

		if fmd.Reserved != 0 {
			res.Add("FMD", ".reserved", "Minutia Reserved is %d, should be 0", fmd.Reserved)
		}
	}

	switch fmd.Type {
	case format.MinutiaOther, format.MinutiaRidgeEnding, format.MinutiaBifurcation:
	default:
		res.Add("FMD", ".type", "minutia type %d not in {0,1,2}", fmd.Type)
	}

	if ctx.Format == format.ANSI || ctx.Format == format.ANSI07 {
		if fmd.Angle > 179 {
			res.Add("FMD", ".angle", "angle %d out of range 0..179", fmd.Angle)
		}
	}

	if fmd.Quality > 100 {
		res.Add("FMD", ".quality", "quality %d out of range 0..100", fmd.Quality)
	}
}
