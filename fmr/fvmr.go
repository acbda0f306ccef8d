package fmr

import (
	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// FVMR is one finger view: the capture metadata for a single impression
// plus its minutiae and optional extended data.
//
// Grounded on original_source/fmr/fvmr.c's internal_read_fvmr /
// internal_write_fvmr, which this type's field set mirrors exactly,
// including the ANSI-2007-only per-view image geometry and the
// card-dialect header-less form.
type FVMR struct {
	FingerNumber   uint8
	ViewNumber     uint8
	ImpressionType format.ImpressionType
	FingerQuality  uint8

	// ANSI-2007 only.
	AlgorithmID uint32
	ImageWidth  uint16
	ImageHeight uint16
	XResolution uint16
	YResolution uint16

	Minutiae []FMD

	FEDs          []FED
	FEDBPresent   bool
	FEDBLength    uint16
	FEDBPartial   bool // an EndOfData inside the minutiae or the FEDB salvaged a partial FVMR
}

// DecodeFVMR reads one FVMR. For the card dialects there is no header;
// minutiae are read until budget (supplied by the caller, the number of
// bytes still unread in the source) is exhausted and number_of_minutiae
// is derived, not read.
func DecodeFVMR(src bytesio.Source, fs format.FormatStandard, cardBudget int) (FVMR, error) {
	if fs.IsCardFormat() {
		return decodeCardFVMR(src, fs, cardBudget)
	}

	var v FVMR

	fn, err := src.ReadU8()
	if err != nil {
		return v, errs.Wrap(errs.EndOfData, err, "finger_number").In("FVMR", ".finger_number")
	}
	v.FingerNumber = fn

	if fs == format.ANSI07 {
		view, err := src.ReadU8()
		if err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "view_number").In("FVMR", ".view_number")
		}
		impr, err := src.ReadU8()
		if err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "impression_type").In("FVMR", ".impression_type")
		}
		v.ViewNumber = view
		v.ImpressionType = format.ImpressionType(impr)
	} else {
		packed, err := src.ReadU8()
		if err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "view/impression byte").In("FVMR", ".view_impression")
		}
		v.ViewNumber = packed >> 4
		v.ImpressionType = format.ImpressionType(packed & 0x0F)
	}

	fq, err := src.ReadU8()
	if err != nil {
		return v, errs.Wrap(errs.EndOfData, err, "finger_quality").In("FVMR", ".finger_quality")
	}
	v.FingerQuality = fq

	if fs == format.ANSI07 {
		alg, err := src.ReadU32BE()
		if err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "algorithm_id").In("FVMR", ".algorithm_id")
		}
		v.AlgorithmID = alg

		if v.ImageWidth, err = src.ReadU16BE(); err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "image_width").In("FVMR", ".image_width")
		}
		if v.ImageHeight, err = src.ReadU16BE(); err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "image_height").In("FVMR", ".image_height")
		}
		if v.XResolution, err = src.ReadU16BE(); err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "x_resolution").In("FVMR", ".x_resolution")
		}
		if v.YResolution, err = src.ReadU16BE(); err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "y_resolution").In("FVMR", ".y_resolution")
		}
	}

	numMinutiae, err := src.ReadU8()
	if err != nil {
		return v, errs.Wrap(errs.EndOfData, err, "number_of_minutiae").In("FVMR", ".number_of_minutiae")
	}

	for i := 0; i < int(numMinutiae); i++ {
		fmd, ferr := DecodeFMD(src, fs)
		if ferr != nil {
			v.FEDBPartial = true
			return v, errs.Wrap(errs.EndOfData, ferr, "FMD %d", i).AsPartial().In("FVMR", ".minutiae")
		}
		v.Minutiae = append(v.Minutiae, fmd)
	}

	feds, blockLen, present, ferr := DecodeFEDB(src, fs)
	v.FEDs = feds
	v.FEDBLength = blockLen
	v.FEDBPresent = present

	if ferr != nil {
		v.FEDBPartial = true
		return v, ferr
	}

	return v, nil
}

func decodeCardFVMR(src bytesio.Source, fs format.FormatStandard, budget int) (FVMR, error) {
	var v FVMR

	fmdSize := 5
	if fs == format.ISOCompactCard {
		fmdSize = 3
	}

	for budget >= fmdSize {
		fmd, err := DecodeFMD(src, fs)
		if err != nil {
			return v, errs.Wrap(errs.EndOfData, err, "card FMD").AsPartial().In("FVMR", ".minutiae")
		}
		v.Minutiae = append(v.Minutiae, fmd)
		budget -= fmdSize
	}

	return v, nil
}

// EncodeFVMR writes v using the wire layout for fs.
func (v FVMR) EncodeFVMR(sink bytesio.Sink, fs format.FormatStandard) error {
	if fs.IsCardFormat() {
		for _, fmd := range v.Minutiae {
			if err := fmd.EncodeFMD(sink, fs); err != nil {
				return err
			}
		}
		return nil
	}

	if err := sink.WriteU8(v.FingerNumber); err != nil {
		return err
	}

	if fs == format.ANSI07 {
		if err := sink.WriteU8(v.ViewNumber); err != nil {
			return err
		}
		if err := sink.WriteU8(byte(v.ImpressionType)); err != nil {
			return err
		}
	} else {
		packed := (v.ViewNumber << 4) | (byte(v.ImpressionType) & 0x0F)
		if err := sink.WriteU8(packed); err != nil {
			return err
		}
	}

	if err := sink.WriteU8(v.FingerQuality); err != nil {
		return err
	}

	if fs == format.ANSI07 {
		if err := sink.WriteU32BE(v.AlgorithmID); err != nil {
			return err
		}
		if err := sink.WriteU16BE(v.ImageWidth); err != nil {
			return err
		}
		if err := sink.WriteU16BE(v.ImageHeight); err != nil {
			return err
		}
		if err := sink.WriteU16BE(v.XResolution); err != nil {
			return err
		}
		if err := sink.WriteU16BE(v.YResolution); err != nil {
			return err
		}
	}

	if err := sink.WriteU8(byte(len(v.Minutiae))); err != nil {
		return err
	}

	for _, fmd := range v.Minutiae {
		if err := fmd.EncodeFMD(sink, fs); err != nil {
			return err
		}
	}

	return EncodeFEDB(sink, v.FEDs, v.FEDBPresent, fs)
}

// ValidateFVMR checks v against spec.md §4.4. nextMinView is the
// per-finger-position monotonic view-number tracker shared across all
// FVMRs of one enclosing FMR; the caller owns its lifetime and resets it
// per FMR.
func ValidateFVMR(v FVMR, fs format.FormatStandard, nextMinView map[uint8]uint8, res *Result) {
	if fs.IsCardFormat() {
		for _, fmd := range v.Minutiae {
			ValidateFMD(fmd, FMDContext{Format: fs}, res)
		}
		return
	}

	if v.FingerNumber > 15 {
		res.Add("FVMR", ".finger_number", "finger_number %d out of range 0..15", v.FingerNumber)
	}

	// spec.md §8 property 5 requires the accepted view-number sequence
	// per finger position to be exactly [0, 1, ..., k] with no gap and no
	// repeat (scenario S3: view 0 then view 2 is Invalid even though 2 is
	// not less than next_min_view); §4.4's "≥ next_min_view[pos]" prose is
	// enforced here as the tighter "== next_min_view[pos]" that produces
	// that contiguous sequence.
	expected := nextMinView[v.FingerNumber]
	if expected == 0 && v.ViewNumber != 0 {
		res.Add("FVMR", ".view_number", "first view for finger %d must be view_number 0, got %d", v.FingerNumber, v.ViewNumber)
	} else if v.ViewNumber != expected {
		res.Add("FVMR", ".view_number", "view_number %d for finger %d is not the expected next value %d", v.ViewNumber, v.FingerNumber, expected)
	} else {
		nextMinView[v.FingerNumber] = v.ViewNumber + 1
	}

	if !v.ImpressionType.ValidForFMR() {
		res.Add("FVMR", ".impression_type", "impression_type %d not accepted by FMR validator", v.ImpressionType)
	}

	if v.FingerQuality > 100 {
		res.Add("FVMR", ".finger_quality", "finger_quality %d out of range 0..100", v.FingerQuality)
	}

	ctx := FMDContext{Format: fs, ImageWidth: int(v.ImageWidth), ImageHeight: int(v.ImageHeight)}
	for _, fmd := range v.Minutiae {
		ValidateFMD(fmd, ctx, res)
	}

	if v.FEDBPresent {
		ValidateFEDBLength(v.FEDBLength, v.FEDs, res)
		ValidateFEDB(v.FEDs, ctx, len(v.Minutiae), res)
	}
}
