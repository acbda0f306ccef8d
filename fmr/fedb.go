package fmr

import (
	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// FED is one Finger Extended Datum: a typed, length-prefixed payload
// nested inside an FEDB. Unknown type IDs keep their raw bytes rather
// than failing, matching spec.md §4.9's "skip unknown, keep raw" stance
// applied here to the FMR side of the codec.
type FED struct {
	TypeID  format.FedType
	RawType uint16 // the on-wire type id, preserved even if unrecognized
	Length  uint16 // the full on-wire field length, header included
	RCDB    *RCDB
	CDDB    *CDDB
	Raw     []byte // payload bytes for an unrecognized type id
}

// RCD is one ridge-count datum: a pair of minutia indices and the ridge
// count observed between them.
type RCD struct {
	IndexOne   uint8
	IndexTwo   uint8
	RidgeCount uint8
}

// RCDB is the ridge-count extended data block payload.
type RCDB struct {
	Method  format.ExtractionMethod
	Entries []RCD
}

// CoreDelta is one core or delta point: a coordinate pair plus up to
// three angle bytes per format variant (0 for ANSI-2007 cores, 1 for
// ANSI/ISO full cores, 3 for deltas in the full dialects).
type CoreDelta struct {
	X      uint16
	Y      uint16
	Angles []uint8
}

// CDDB is the core/delta extended data block payload.
type CDDB struct {
	Cores  []CoreDelta
	Deltas []CoreDelta
}

const (
	fedHeaderLength = 4 // u16 type_id + u16 length
	rcdbHeaderLen   = 1 // u8 method
	rcdEntryLen     = 3
)

// DecodeFEDB reads the Finger Extended Data Block attached to an FVMR.
// block_length == 0 means "no FEDB present"; the caller distinguishes
// that case from an empty-but-present block by checking the returned
// bool.
func DecodeFEDB(src bytesio.Source, fs format.FormatStandard) (feds []FED, blockLength uint16, present bool, err error) {
	blockLength, err = src.ReadU16BE()
	if err != nil {
		return nil, 0, false, errs.Wrap(errs.EndOfData, err, "FEDB block_length").In("FEDB", ".block_length")
	}

	if blockLength == 0 {
		return nil, 0, false, nil
	}

	remaining := int(blockLength) // budget counts bytes following the block_length field itself

	for remaining > 0 {
		fed, n, ferr := decodeFED(src, fs)
		if ferr != nil {
			return feds, blockLength, true, ferr
		}

		feds = append(feds, fed)
		remaining -= n
	}

	return feds, blockLength, true, nil
}

func decodeFED(src bytesio.Source, fs format.FormatStandard) (FED, int, error) {
	var fed FED

	typeID, err := src.ReadU16BE()
	if err != nil {
		return fed, 0, errs.Wrap(errs.EndOfData, err, "FED type_id").AsPartial().In("FED", ".type_id")
	}

	length, err := src.ReadU16BE()
	if err != nil {
		return fed, 0, errs.Wrap(errs.EndOfData, err, "FED length").AsPartial().In("FED", ".length")
	}

	if length < fedHeaderLength {
		return fed, 0, errs.New(errs.Malformed, "FED length %d shorter than header", length).In("FED", ".length")
	}

	payloadLen := int(length) - fedHeaderLength

	fed.RawType = typeID
	fed.TypeID = format.FedType(typeID)
	fed.Length = length

	switch format.FedType(typeID) {
	case format.FedRidgeCount:
		rcdb, rerr := decodeRCDB(src, payloadLen)
		if rerr != nil {
			return fed, 0, rerr
		}
		fed.RCDB = rcdb

	case format.FedCoreAndDelta:
		cddb, cerr := decodeCDDB(src, fs, payloadLen)
		if cerr != nil {
			return fed, 0, cerr
		}
		fed.CDDB = cddb

	default:
		raw, rerr := src.ReadBytes(payloadLen)
		if rerr != nil {
			return fed, 0, errs.Wrap(errs.EndOfData, rerr, "FED raw payload").AsPartial().In("FED", ".payload")
		}
		fed.Raw = raw
	}

	return fed, int(length), nil
}

func decodeRCDB(src bytesio.Source, payloadLen int) (*RCDB, error) {
	method, err := src.ReadU8()
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "RCDB method").AsPartial().In("RCDB", ".method")
	}

	rcdb := &RCDB{Method: format.ExtractionMethod(method)}

	n := (payloadLen - rcdbHeaderLen) / rcdEntryLen
	for i := 0; i < n; i++ {
		one, err := src.ReadU8()
		if err != nil {
			return rcdb, errs.Wrap(errs.EndOfData, err, "RCD index_one").AsPartial().In("RCD", ".index_one")
		}

		two, err := src.ReadU8()
		if err != nil {
			return rcdb, errs.Wrap(errs.EndOfData, err, "RCD index_two").AsPartial().In("RCD", ".index_two")
		}

		count, err := src.ReadU8()
		if err != nil {
			return rcdb, errs.Wrap(errs.EndOfData, err, "RCD ridge_count").AsPartial().In("RCD", ".ridge_count")
		}

		rcdb.Entries = append(rcdb.Entries, RCD{IndexOne: one, IndexTwo: two, RidgeCount: count})
	}

	return rcdb, nil
}

// coreAngleCount/deltaAngleCount follow spec.md §4.3: "coordinates ...
// followed by optional angle, per format variant" for cores, and a fixed
// three angle bytes for deltas in the full dialects; card dialects carry
// no CDDB at all (no FEDB header field exists for them).
func coreAngleCount(fs format.FormatStandard) int {
	if fs == format.ANSI07 {
		return 0
	}

	return 1
}

func deltaAngleCount(fs format.FormatStandard) int {
	return 3
}

func decodeCDDB(src bytesio.Source, fs format.FormatStandard, payloadLen int) (*CDDB, error) {
	cddb := &CDDB{}

	numCores, err := src.ReadU8()
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "CDDB num_cores").AsPartial().In("CDDB", ".num_cores")
	}

	angleN := coreAngleCount(fs)

	for i := 0; i < int(numCores); i++ {
		cd, cerr := decodeCoreDelta(src, angleN, "CD")
		if cerr != nil {
			return cddb, cerr
		}
		cddb.Cores = append(cddb.Cores, cd)
	}

	numDeltas, err := src.ReadU8()
	if err != nil {
		return cddb, errs.Wrap(errs.EndOfData, err, "CDDB num_deltas").AsPartial().In("CDDB", ".num_deltas")
	}

	deltaAngleN := deltaAngleCount(fs)

	for i := 0; i < int(numDeltas); i++ {
		dd, derr := decodeCoreDelta(src, deltaAngleN, "DD")
		if derr != nil {
			return cddb, derr
		}
		cddb.Deltas = append(cddb.Deltas, dd)
	}

	_ = payloadLen // framing follows the counts; the payload length is not used

	return cddb, nil
}

func decodeCoreDelta(src bytesio.Source, angleCount int, label string) (CoreDelta, error) {
	var cd CoreDelta

	x, err := src.ReadU16BE()
	if err != nil {
		return cd, errs.Wrap(errs.EndOfData, err, label+" x").AsPartial().In(label, ".x")
	}

	y, err := src.ReadU16BE()
	if err != nil {
		return cd, errs.Wrap(errs.EndOfData, err, label+" y").AsPartial().In(label, ".y")
	}

	cd.X = x
	cd.Y = y

	for i := 0; i < angleCount; i++ {
		a, aerr := src.ReadU8()
		if aerr != nil {
			return cd, errs.Wrap(errs.EndOfData, aerr, label+" angle").AsPartial().In(label, ".angle")
		}
		cd.Angles = append(cd.Angles, a)
	}

	return cd, nil
}

// EncodeFEDB writes the FEDB for feds. If feds is empty and present is
// false, it writes only a zero block_length, matching the "no FEDB"
// wire form.
func EncodeFEDB(sink bytesio.Sink, feds []FED, present bool, fs format.FormatStandard) error {
	if !present {
		return sink.WriteU16BE(0)
	}

	var total uint16
	for _, f := range feds {
		total += f.Length
	}

	if err := sink.WriteU16BE(total); err != nil {
		return err
	}

	for _, f := range feds {
		if err := encodeFED(sink, f, fs); err != nil {
			return err
		}
	}

	return nil
}

func encodeFED(sink bytesio.Sink, fed FED, fs format.FormatStandard) error {
	if err := sink.WriteU16BE(fed.RawType); err != nil {
		return err
	}

	if err := sink.WriteU16BE(fed.Length); err != nil {
		return err
	}

	switch {
	case fed.RCDB != nil:
		return encodeRCDB(sink, fed.RCDB)
	case fed.CDDB != nil:
		return encodeCDDB(sink, fed.CDDB, fs)
	default:
		return sink.WriteBytes(fed.Raw)
	}
}

func encodeRCDB(sink bytesio.Sink, rcdb *RCDB) error {
	if err := sink.WriteU8(byte(rcdb.Method)); err != nil {
		return err
	}

	for _, e := range rcdb.Entries {
		if err := sink.WriteU8(e.IndexOne); err != nil {
			return err
		}
		if err := sink.WriteU8(e.IndexTwo); err != nil {
			return err
		}
		if err := sink.WriteU8(e.RidgeCount); err != nil {
			return err
		}
	}

	return nil
}

func encodeCDDB(sink bytesio.Sink, cddb *CDDB, fs format.FormatStandard) error {
	if err := sink.WriteU8(byte(len(cddb.Cores))); err != nil {
		return err
	}

	for _, c := range cddb.Cores {
		if err := encodeCoreDelta(sink, c); err != nil {
			return err
		}
	}

	if err := sink.WriteU8(byte(len(cddb.Deltas))); err != nil {
		return err
	}

	for _, d := range cddb.Deltas {
		if err := encodeCoreDelta(sink, d); err != nil {
			return err
		}
	}

	return nil
}

func encodeCoreDelta(sink bytesio.Sink, cd CoreDelta) error {
	if err := sink.WriteU16BE(cd.X); err != nil {
		return err
	}
	if err := sink.WriteU16BE(cd.Y); err != nil {
		return err
	}
	for _, a := range cd.Angles {
		if err := sink.WriteU8(a); err != nil {
			return err
		}
	}

	return nil
}

// ValidateFEDBLength checks the block_length == 0 OR block_length ==
// Σ fed.length invariant from spec.md §4.3.
func ValidateFEDBLength(blockLength uint16, feds []FED, res *Result) {
	if blockLength == 0 {
		return
	}

	var sum uint16
	for _, f := range feds {
		sum += f.Length
	}

	if blockLength != sum {
		res.Add("FEDB", ".block_length", "block_length %d does not equal sum of FED lengths %d", blockLength, sum)
	}
}

// ValidateFEDB checks the FEDB/FED/RCDB/CDDB tree against spec.md §4.3.
func ValidateFEDB(feds []FED, ctx FMDContext, numMinutiae int, res *Result) {
	for i, f := range feds {
		switch {
		case f.RCDB != nil:
			validateRCDB(f.RCDB, numMinutiae, i, res)
		case f.CDDB != nil:
			validateCDDB(f.CDDB, ctx, i, res)
		}
	}
}

func validateRCDB(rcdb *RCDB, numMinutiae, idx int, res *Result) {
	switch rcdb.Method {
	case format.ExtractionNonSpecific, format.ExtractionFourNeighbor, format.ExtractionEightNeighbor:
	default:
		res.Add("RCDB", "", "entry %d: method %d not in {0,1,2}", idx, rcdb.Method)
	}

	for j, e := range rcdb.Entries {
		if int(e.IndexOne) > numMinutiae || int(e.IndexTwo) > numMinutiae {
			res.Add("RCD", "", "entry %d.%d: index out of range (num_minutiae=%d)", idx, j, numMinutiae)
		}
	}
}

func validateCDDB(cddb *CDDB, ctx FMDContext, idx int, res *Result) {
	if len(cddb.Cores) < 1 {
		res.Add("CDDB", "", "entry %d: num_cores must be >= 1", idx)
	}

	checkPoint := func(label string, j int, cd CoreDelta) {
		if ctx.ImageWidth > 0 && int(cd.X) > ctx.ImageWidth-1 {
			res.Add(label, "", "entry %d.%d: x %d exceeds image width-1 %d", idx, j, cd.X, ctx.ImageWidth-1)
		}
		if ctx.ImageHeight > 0 && int(cd.Y) > ctx.ImageHeight-1 {
			res.Add(label, "", "entry %d.%d: y %d exceeds image height-1 %d", idx, j, cd.Y, ctx.ImageHeight-1)
		}
		for _, a := range cd.Angles {
			if a > 179 {
				res.Add(label, "", "entry %d.%d: angle %d out of range 0..179", idx, j, a)
			}
		}
	}

	for j, c := range cddb.Cores {
		checkPoint("CD", j, c)
	}
	for j, d := range cddb.Deltas {
		checkPoint("DD", j, d)
	}
}
