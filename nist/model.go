package nist

import (
	"encoding/binary"
	"strconv"

	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// maxFixedPointIterations bounds the length-recomputation loop
// (recomputeLength): growing a decimal length by one digit can only
// happen a handful of times before the record would exceed any
// realistic size, so a runaway is a bug, not a legitimate fixed point.
const maxFixedPointIterations = 8

// Lookup walks the path (recordType, fieldNumber, subfieldIndex,
// itemIndex) and returns the item it names. Any axis may be Undefined
// to mean "the first match at this level", per spec.md §4.6's
// path-based access contract. recordIndex selects which record of
// recordType (0-based occurrence) when more than one matches.
func (fl *File) Lookup(recordIndex, recordType, fieldNumber, subfieldIndex, itemIndex int) (*Item, error) {
	r, err := fl.lookupRecord(recordIndex, recordType)
	if err != nil {
		return nil, err
	}

	f := r.Field(fieldNumber)
	if fieldNumber != Undefined && f == nil {
		return nil, errs.New(errs.Malformed, "no field %d in record type %d", fieldNumber, r.Type)
	}
	if f == nil && len(r.Fields) > 0 {
		f = r.Fields[0]
	}
	if f == nil {
		return nil, errs.New(errs.Malformed, "record type %d has no fields", r.Type)
	}

	if f.Binary {
		return nil, errs.New(errs.Unsupported, "Lookup does not address binary-field bytes; read Field.Raw directly")
	}

	sfi := subfieldIndex
	if sfi == Undefined {
		sfi = 0
	}
	if sfi < 0 || sfi >= len(f.Subfields) {
		return nil, errs.New(errs.Malformed, "subfield index %d out of range for field %s", sfi, f.Tag())
	}
	sf := f.Subfields[sfi]

	ii := itemIndex
	if ii == Undefined {
		ii = 0
	}
	if ii < 0 || ii >= len(sf.Items) {
		return nil, errs.New(errs.Malformed, "item index %d out of range for field %s subfield %d", ii, f.Tag(), sfi)
	}

	return sf.Items[ii], nil
}

func (fl *File) lookupRecord(recordIndex, recordType int) (*Record, error) {
	seen := 0
	for _, r := range fl.Records {
		if recordType != Undefined && r.Type != recordType {
			continue
		}

		if recordIndex == Undefined || seen == recordIndex {
			return r, nil
		}
		seen++
	}

	return nil, errs.New(errs.Malformed, "no record of type %d at occurrence %d", recordType, recordIndex)
}

// SubstituteItem replaces the value of the item at the given path with
// newValue and recomputes the owning record's declared length, per
// spec.md §4.6 "substitute_item(index_path, new_bytes): replace an
// item's value and update all enclosing byte totals; if the mutated
// item is the LEN item ... a second pass recomputes the textual length
// to a fixed point".
func (fl *File) SubstituteItem(recordIndex, recordType, fieldNumber, subfieldIndex, itemIndex int, newValue []byte) error {
	it, err := fl.Lookup(recordIndex, recordType, fieldNumber, subfieldIndex, itemIndex)
	if err != nil {
		return err
	}

	it.SetValue(newValue)

	r, err := fl.lookupRecord(recordIndex, recordType)
	if err != nil {
		return err
	}

	r.recomputeLength()

	return nil
}

// Recompute walks every record and brings its declared length (the
// tagged ".001" LEN item, or the binary record's 4-byte length prefix)
// back into agreement with the record's actual serialized byte count,
// per spec.md §4.6 and §8 property 2. Callers batch several mutations
// and call Recompute once rather than after each SubstituteItem,
// mirroring original_source/nbis/lib/an2k/update.c's separation of
// mutation from length fixup.
func (fl *File) Recompute() {
	for _, r := range fl.Records {
		r.recomputeLength()
	}
}

// Recompute rewrites r's own LEN field to agree with its current
// NumBytes, for callers working with a single record outside of a
// File. File.Recompute calls this for every record it owns.
func (r *Record) Recompute() { r.recomputeLength() }

// recomputeLength rewrites r's LEN field (Fields[0]) to equal r's
// current NumBytes, iterating to a fixed point because rewriting a
// textual length can itself change the digit count and thus the
// record's own size (spec.md §3 "Record length fields ... must be
// rewritten ... if the textual representation of the new length has a
// different character count, that delta propagates up once more").
func (r *Record) recomputeLength() {
	lenField := r.LengthField()
	if lenField == nil {
		return
	}

	for i := 0; i < maxFixedPointIterations; i++ {
		total := r.NumBytes()

		var newRaw []byte
		if lenField.Binary {
			newRaw = make([]byte, 4)
			binary.BigEndian.PutUint32(newRaw, uint32(total))
		} else {
			newRaw = []byte(strconv.Itoa(total))
		}

		it := lenField.SoleItem()
		if lenField.Binary {
			if bytesEqual(lenField.Raw, newRaw) {
				return
			}
			lenField.Raw = newRaw

			continue
		}

		if it == nil {
			return
		}
		if bytesEqual(it.Value, newRaw) {
			return
		}
		it.SetValue(newRaw)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// declaredLength reads r's LEN field back as an integer, the value a
// reader uses to bound how many bytes belong to this record (spec.md
// §4.7 "reads a length field (.001) first, uses it to bound all further
// reads").
func declaredLength(lenField *Field) (int, error) {
	if lenField == nil {
		return 0, errs.New(errs.Malformed, "record has no LEN field")
	}

	if lenField.Binary {
		if len(lenField.Raw) != 4 {
			return 0, errs.New(errs.Malformed, "binary LEN field is %d bytes, want 4", len(lenField.Raw))
		}

		return int(binary.BigEndian.Uint32(lenField.Raw)), nil
	}

	it := lenField.SoleItem()
	if it == nil {
		return 0, errs.New(errs.Malformed, "tagged LEN field has no value")
	}

	n, err := strconv.Atoi(it.String())
	if err != nil {
		return 0, errs.Wrap(errs.Malformed, err, "LEN value %q is not an integer", it.String())
	}

	return n, nil
}

// dataKindForType classifies a tagged record type per spec.md §4.9's
// {ASCII, Binary, Mixed} RecordDataKind, used when the reader doesn't
// already know the kind from a configuration spec: tagged image types
// are Mixed (text fields plus a binary trailer), the fixed-layout types
// are Binary, everything else tagged is ASCII.
func dataKindForType(recordType int) format.RecordDataKind {
	switch {
	case IsBinaryRecordType(recordType):
		return format.KindBinary
	case IsTaggedImageType(recordType):
		return format.KindMixed
	default:
		return format.KindASCII
	}
}
