package fmr

import (
	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/options"
)

// Validator checks a decoded FMR against spec.md §4.5, with one
// behavior toggle grounded directly on validate.c's
// `#if !defined(MINEX)` guard around the CBEFF-owner-zero check
// (original_source/biomdi/lib/validate.c:76-90): MINEX-profile runs
// disable that one rule rather than compiling it out, since this
// package never ships multiple build variants.
type Validator struct {
	minexRelaxed bool
}

// ValidatorOption configures a Validator; apply with NewValidator.
type ValidatorOption = options.Option[*Validator]

// WithMINEXRelaxation disables the CBEFF-owner-zero check, mirroring the
// upstream MINEX test profile.
func WithMINEXRelaxation() ValidatorOption {
	return options.NoError(func(v *Validator) { v.minexRelaxed = true })
}

// NewValidator builds a Validator with the given options applied.
func NewValidator(opts ...ValidatorOption) (*Validator, error) {
	v := &Validator{}
	if err := options.Apply(v, opts...); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks fmrec against spec.md §4.5: header magic and version,
// the minimum-length-for-dialect check, the CBEFF-owner/resolution/
// reserved checks, then recurses into every FVMR with a freshly reset
// per-finger view-number tracker.
func (val *Validator) Validate(fmrec *FMR) *Result {
	res := NewResult()

	if !fmrec.Format.IsCardFormat() {
		val.validateHeader(fmrec, res)
	}

	nextMinView := make(map[uint8]uint8)
	for i := range fmrec.Views {
		v := fmrec.Views[i]
		if fmrec.Format == format.ANSI || fmrec.Format == format.ISO {
			// These dialects carry the image size in the FMR header only.
			v.ImageWidth = fmrec.XImageSize
			v.ImageHeight = fmrec.YImageSize
		}
		ValidateFVMR(v, fmrec.Format, nextMinView, res)
	}

	return res
}

func (val *Validator) validateHeader(fmrec *FMR, res *Result) {
	if fmrec.FormatID != formatMagic {
		res.Add("FMR", ".format_id", "format_id %q does not equal %q", fmrec.FormatID, formatMagic)
	}

	if want, ok := specVersion[fmrec.Format]; ok && fmrec.SpecVersion != want {
		res.Add("FMR", ".spec_version", "spec_version %q does not equal expected %q", fmrec.SpecVersion, want)
	}

	if fmrec.RecordLength < minHeaderLength(fmrec.Format) {
		res.Add("FMR", ".record_length", "record_length %d below minimum header length %d", fmrec.RecordLength, minHeaderLength(fmrec.Format))
	}

	if fmrec.Format == format.ANSI && !val.minexRelaxed {
		if fmrec.CBEFFOwner == 0 {
			res.Add("FMR", ".cbeff_owner", "CBEFF ID owner must not be zero")
		}
	}

	if fmrec.Format == format.ANSI || fmrec.Format == format.ISO {
		if fmrec.XResolution == 0 || fmrec.YResolution == 0 {
			res.Add("FMR", ".resolution", "x_resolution and y_resolution must both be nonzero")
		}
	}

	if fmrec.Reserved != 0 {
		res.Add("FMR", ".reserved", "header reserved field is %d, should be 0", fmrec.Reserved)
	}
}

func minHeaderLength(fs format.FormatStandard) uint32 {
	switch fs {
	case format.ANSI07:
		return headerLenANSI07
	case format.ISO:
		return headerLenISO
	case format.ANSI:
		return headerLenANSISmall
	default:
		return 0
	}
}
