package fmr

import (
	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/pool"
)

// Header length magic numbers from spec.md §6.
const (
	headerLenANSISmall  = 26
	headerLenANSILarge  = 30
	headerLenISO        = 24
	headerLenANSI07     = 22
	fmdISONormalDataLen = 5
	fmdISOCompactLen    = 3
)

var specVersion = map[format.FormatStandard]string{
	format.ANSI:   " 20\x00",
	format.ANSI07: "030\x00",
	format.ISO:    " 20\x00",
}

const formatMagic = "FMR\x00"

// headerLenKind records which of the three record_length encodings (ANSI-378
// short u16, ANSI-378 long u16+u32, ISO/ANSI-2007 u32) a decoded FMR used, so Encode can reproduce it byte-exact
// (fmr.c's FMR_ANSI_SMALL_HEADER_TYPE / FMR_ANSI_LARGE_HEADER_TYPE /
// FMR_ANSI07_HEADER_TYPE / FMR_ISO_HEADER_TYPE).
type headerLenKind uint8

const (
	lenKindANSISmall headerLenKind = iota
	lenKindANSILarge
	lenKindU32
)

// FMR is the top-level finger minutiae record: a header (absent for the
// card dialects) plus a sequence of finger views.
//
// Grounded on original_source/biomdi/lib/fmr.c's internal_read_fmr /
// internal_write_fmr.
type FMR struct {
	Format FormatStandard

	FormatID      string
	SpecVersion   string
	RecordLength  uint32
	lenKind       headerLenKind
	CBEFFOwner    uint16
	CBEFFType     uint16
	Compliance    uint8
	ScannerID     uint16
	XImageSize    uint16
	YImageSize    uint16
	XResolution   uint16
	YResolution   uint16
	Reserved      uint8

	Views []FVMR

	Truncated bool // an EndOfData salvage occurred while reading the last view

	numViewsField uint8 // the header's declared num_views, before Views is populated
}

// FormatStandard is re-exported from the format package so callers of
// this package need not import format for the common case.
type FormatStandard = format.FormatStandard

const (
	complianceMask  = 0xF
	complianceShift = 12
	scannerIDMask   = 0x0FFF
)

func splitComplianceScanner(sval uint16) (compliance uint8, scannerID uint16) {
	compliance = uint8((sval >> complianceShift) & complianceMask)
	scannerID = sval & scannerIDMask

	return compliance, scannerID
}

func joinComplianceScanner(compliance uint8, scannerID uint16) uint16 {
	return (uint16(compliance&complianceMask) << complianceShift) | (scannerID & scannerIDMask)
}

// Decode reads one complete FMR: header (if any) followed by num_views
// FVMRs. On a truncated final FVMR whose FEDB reports partial, Decode
// returns the partially-built FMR together with an EndOfData(partial)
// error, per spec.md §4.5 and §4.10's END_PARTIAL transition.
func Decode(src bytesio.Source, fs format.FormatStandard) (*FMR, error) {
	fmrec := &FMR{Format: fs}

	var numViews int

	if fs.IsCardFormat() {
		numViews = 1
	} else {
		if err := decodeHeader(src, fmrec, fs); err != nil {
			return fmrec, err
		}
		numViews = int(fmrec.numViewsField)
	}

	for i := 0; i < numViews; i++ {
		budget := 0
		if fs.IsCardFormat() {
			budget = remainingCardBudget(src)
		}

		v, err := DecodeFVMR(src, fs, budget)
		if err != nil {
			fmrec.Views = append(fmrec.Views, v)

			if errs.IsPartial(err) {
				fmrec.Truncated = true
				return fmrec, err
			}

			return fmrec, err
		}

		fmrec.Views = append(fmrec.Views, v)
	}

	return fmrec, nil
}

// remainingCardBudget reports how many bytes are left in a bounded
// buffer source; card dialects have no declared record_length, so the
// enclosing buffer's own bound is the only budget available (spec.md
// §4.5: "record_length := num_minutiae × size_per_FMD" is computed
// after the fact, not read).
func remainingCardBudget(src bytesio.Source) int {
	r := src.Remaining()
	if r < 0 {
		return 0
	}

	return int(r)
}

func decodeHeader(src bytesio.Source, fmrec *FMR, fs format.FormatStandard) error {
	magic, err := src.ReadBytes(4)
	if err != nil {
		return errs.Wrap(errs.EndOfData, err, "format_id").In("FMR", ".format_id")
	}
	fmrec.FormatID = string(magic)

	ver, err := src.ReadBytes(4)
	if err != nil {
		return errs.Wrap(errs.EndOfData, err, "spec_version").In("FMR", ".spec_version")
	}
	fmrec.SpecVersion = string(ver)

	switch fs {
	case format.ISO:
		rl, err := src.ReadU32BE()
		if err != nil {
			return errs.Wrap(errs.EndOfData, err, "record_length").In("FMR", ".record_length")
		}
		fmrec.RecordLength = rl
		fmrec.lenKind = lenKindU32

	case format.ANSI07:
		rl, err := src.ReadU32BE()
		if err != nil {
			return errs.Wrap(errs.EndOfData, err, "record_length").In("FMR", ".record_length")
		}
		fmrec.RecordLength = rl
		fmrec.lenKind = lenKindU32

	default: // ANSI-378
		small, err := src.ReadU16BE()
		if err != nil {
			return errs.Wrap(errs.EndOfData, err, "record_length (short)").In("FMR", ".record_length")
		}

		if small == 0 {
			large, err := src.ReadU32BE()
			if err != nil {
				return errs.Wrap(errs.EndOfData, err, "record_length (large)").In("FMR", ".record_length")
			}
			fmrec.RecordLength = large
			fmrec.lenKind = lenKindANSILarge
		} else {
			fmrec.RecordLength = uint32(small)
			fmrec.lenKind = lenKindANSISmall
		}
	}

	if fs == format.ANSI || fs == format.ANSI07 {
		owner, err := src.ReadU16BE()
		if err != nil {
			return errs.Wrap(errs.EndOfData, err, "CBEFF owner").In("FMR", ".cbeff_owner")
		}
		typ, err := src.ReadU16BE()
		if err != nil {
			return errs.Wrap(errs.EndOfData, err, "CBEFF type").In("FMR", ".cbeff_type")
		}
		fmrec.CBEFFOwner = owner
		fmrec.CBEFFType = typ
	}

	csval, err := src.ReadU16BE()
	if err != nil {
		return errs.Wrap(errs.EndOfData, err, "compliance/scanner_id").In("FMR", ".compliance_scanner")
	}
	fmrec.Compliance, fmrec.ScannerID = splitComplianceScanner(csval)

	if fs == format.ANSI || fs == format.ISO {
		if fmrec.XImageSize, err = src.ReadU16BE(); err != nil {
			return errs.Wrap(errs.EndOfData, err, "x_image_size").In("FMR", ".x_image_size")
		}
		if fmrec.YImageSize, err = src.ReadU16BE(); err != nil {
			return errs.Wrap(errs.EndOfData, err, "y_image_size").In("FMR", ".y_image_size")
		}
		if fmrec.XResolution, err = src.ReadU16BE(); err != nil {
			return errs.Wrap(errs.EndOfData, err, "x_resolution").In("FMR", ".x_resolution")
		}
		if fmrec.YResolution, err = src.ReadU16BE(); err != nil {
			return errs.Wrap(errs.EndOfData, err, "y_resolution").In("FMR", ".y_resolution")
		}
	}

	nv, err := src.ReadU8()
	if err != nil {
		return errs.Wrap(errs.EndOfData, err, "num_views").In("FMR", ".num_views")
	}
	fmrec.numViewsField = nv

	res, err := src.ReadU8()
	if err != nil {
		return errs.Wrap(errs.EndOfData, err, "reserved").In("FMR", ".reserved")
	}
	fmrec.Reserved = res

	return nil
}

// Encode writes fmrec in full, reproducing the same record_length
// encoding (short/long/u32) the record was decoded with.
func (fmrec *FMR) Encode(sink bytesio.Sink) error {
	fs := fmrec.Format

	if !fs.IsCardFormat() {
		if err := encodeHeader(sink, fmrec, fs); err != nil {
			return err
		}
	}

	for _, v := range fmrec.Views {
		if err := v.EncodeFVMR(sink, fs); err != nil {
			return err
		}
	}

	return nil
}

// EncodeBytes serializes fmrec through the pooled record buffer and
// returns a fresh copy of the result. Callers that only need the bytes
// (writing to a file, hashing, embedding in a CBEFF wrapper) should
// prefer this over managing their own bytesio.Sink, since it lets
// repeated encodes reuse one buffer's backing array instead of
// allocating one per call.
func (fmrec *FMR) EncodeBytes() ([]byte, error) {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	sink := bytesio.NewBufferSink(buf)
	if err := fmrec.Encode(sink); err != nil {
		return nil, err
	}

	out := make([]byte, len(sink.Bytes()))
	copy(out, sink.Bytes())

	return out, nil
}

func encodeHeader(sink bytesio.Sink, fmrec *FMR, fs format.FormatStandard) error {
	if err := sink.WriteBytes([]byte(fmrec.FormatID)); err != nil {
		return err
	}
	if err := sink.WriteBytes([]byte(fmrec.SpecVersion)); err != nil {
		return err
	}

	switch fmrec.lenKind {
	case lenKindANSISmall:
		if err := sink.WriteU16BE(uint16(fmrec.RecordLength)); err != nil {
			return err
		}
	case lenKindANSILarge:
		if err := sink.WriteU16BE(0); err != nil {
			return err
		}
		if err := sink.WriteU32BE(fmrec.RecordLength); err != nil {
			return err
		}
	case lenKindU32:
		if err := sink.WriteU32BE(fmrec.RecordLength); err != nil {
			return err
		}
	}

	if fs == format.ANSI || fs == format.ANSI07 {
		if err := sink.WriteU16BE(fmrec.CBEFFOwner); err != nil {
			return err
		}
		if err := sink.WriteU16BE(fmrec.CBEFFType); err != nil {
			return err
		}
	}

	if err := sink.WriteU16BE(joinComplianceScanner(fmrec.Compliance, fmrec.ScannerID)); err != nil {
		return err
	}

	if fs == format.ANSI || fs == format.ISO {
		if err := sink.WriteU16BE(fmrec.XImageSize); err != nil {
			return err
		}
		if err := sink.WriteU16BE(fmrec.YImageSize); err != nil {
			return err
		}
		if err := sink.WriteU16BE(fmrec.XResolution); err != nil {
			return err
		}
		if err := sink.WriteU16BE(fmrec.YResolution); err != nil {
			return err
		}
	}

	if err := sink.WriteU8(uint8(len(fmrec.Views))); err != nil {
		return err
	}

	return sink.WriteU8(fmrec.Reserved)
}

// appendixFBit is bit 3 (0x0008) of the compliance nibble.
const appendixFBit = 0x0008

// AppendixFConformant reports whether bit 3 of Compliance is set.
func (fmrec *FMR) AppendixFConformant() bool {
	return fmrec.Compliance&appendixFBit != 0
}

// RecomputeCardLength fills RecordLength for a card-dialect FMR from its
// decoded minutiae count, per spec.md §4.5 ("record_length :=
// num_minutiae × size_per_FMD").
func (fmrec *FMR) RecomputeCardLength() {
	if !fmrec.Format.IsCardFormat() || len(fmrec.Views) == 0 {
		return
	}

	size := fmdISONormalDataLen
	if fmrec.Format == format.ISOCompactCard {
		size = fmdISOCompactLen
	}

	fmrec.RecordLength = uint32(len(fmrec.Views[0].Minutiae) * size)
}
