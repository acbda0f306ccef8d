package nist

import (
	"strconv"
	"strings"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
)

// imageDataFieldNumber is the conventional field number of a tagged
// image record's binary trailer ("rr.999:"), per spec.md §4.7's
// description of the final image-bearing field.
const imageDataFieldNumber = 999

// DecodeTaggedRecord reads one complete tagged record: its .001 LEN
// field first (which also identifies the record's type), then the
// remaining fields until the declared length is exhausted, per spec.md
// §4.7. For a tagged image record (Types 10, 13-17) the final field's
// value is read as a raw length-prefixed blob rather than being scanned
// for separator bytes.
//
// Grounded on original_source/nbis/lib/an2k/type1314.c's
// biomeval_nbis_get_IMAGE_field, which switches the same way once the
// non-image tagged fields of a Type-14 record are exhausted.
func DecodeTaggedRecord(src bytesio.Source) (*Record, error) {
	startPos := src.Position()

	lenField, term, err := decodeTaggedField(src)
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "reading LEN field").In("NIST", ".001")
	}
	if lenField.FieldNumber != 1 {
		return nil, errs.New(errs.Malformed, "first field of a tagged record must be .001 (LEN), got .%03d", lenField.FieldNumber).In("NIST", "")
	}

	r := NewRecord(lenField.RecordType, dataKindForType(lenField.RecordType))
	r.AppendField(lenField)

	total, err := declaredLength(lenField)
	if err != nil {
		return r, err
	}

	if term == FS {
		return r, nil
	}

	isImage := IsTaggedImageType(r.Type)

	for {
		consumed := int(src.Position() - startPos)
		remaining := total - consumed

		if remaining <= 0 {
			return r, errs.New(errs.Malformed, "declared length %d exhausted mid-record (type %d)", total, r.Type).In("NIST", "")
		}

		rt, fn, err := decodeTaggedTag(src)
		if err != nil {
			return r, errs.Wrap(errs.EndOfData, err, "field tag").In("NIST", "")
		}
		if rt != r.Type {
			return r, errs.New(errs.Malformed, "field tag record type %d does not match record type %d", rt, r.Type).In("NIST", "")
		}

		if isImage && fn == imageDataFieldNumber {
			consumedAfterTag := int(src.Position() - startPos)
			rawLen := total - consumedAfterTag - 1 // reserve the record's trailing FS
			if rawLen < 0 {
				return r, errs.New(errs.Malformed, "image field length %d is negative", rawLen).In("NIST", ".999")
			}

			raw, err := src.ReadBytes(rawLen)
			if err != nil {
				return r, errs.Wrap(errs.EndOfData, err, "image data").In("NIST", ".999")
			}
			r.AppendField(NewRawImageField(rt, fn, raw))

			fsByte, err := src.ReadU8()
			if err != nil {
				return r, errs.Wrap(errs.EndOfData, err, "trailing FS after image data").In("NIST", "")
			}
			if fsByte != FS {
				return r, errs.New(errs.Malformed, "expected FS after image data, got 0x%02X", fsByte).In("NIST", "")
			}

			return r, nil
		}

		f, term, err := decodeTaggedFieldBody(src, rt, fn)
		if err != nil {
			return r, errs.Wrap(errs.EndOfData, err, "field value").In("NIST", f.Tag())
		}
		r.AppendField(f)

		if term == FS {
			return r, nil
		}
	}
}

// decodeTaggedTag reads an ASCII tag "rr.fff:" and returns its record
// type and field number.
func decodeTaggedTag(src bytesio.Source) (recordType, fieldNumber int, err error) {
	var buf []byte

	for {
		b, rerr := src.ReadU8()
		if rerr != nil {
			return 0, 0, rerr
		}
		if b == ':' {
			break
		}

		buf = append(buf, b)
		if len(buf) > 16 {
			return 0, 0, errs.New(errs.Malformed, "tag %q exceeds maximum length before ':'", buf)
		}
	}

	parts := strings.SplitN(string(buf), ".", 2)
	if len(parts) != 2 {
		return 0, 0, errs.New(errs.Malformed, "tag %q is not of the form rr.fff", buf)
	}

	rt, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errs.Wrap(errs.Malformed, err, "tag %q record type is not numeric", buf)
	}

	fn, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errs.Wrap(errs.Malformed, err, "tag %q field number is not numeric", buf)
	}

	return rt, fn, nil
}

// decodeTaggedField reads a full field, tag included.
func decodeTaggedField(src bytesio.Source) (*Field, byte, error) {
	rt, fn, err := decodeTaggedTag(src)
	if err != nil {
		return nil, 0, err
	}

	return decodeTaggedFieldBody(src, rt, fn)
}

// decodeTaggedFieldBody reads a field's value given its already-parsed
// tag, splitting on US (item), RS (subfield), and GS/FS (field/record
// end) per spec.md §4.10's tagged-field state machine. It returns the
// terminating separator (GS or FS) so the caller knows whether another
// field follows.
func decodeTaggedFieldBody(src bytesio.Source, recordType, fieldNumber int) (*Field, byte, error) {
	f := &Field{RecordType: recordType, FieldNumber: fieldNumber}
	sf := NewSubfield()

	var item []byte

	for {
		b, err := src.ReadU8()
		if err != nil {
			return f, 0, err
		}

		switch b {
		case US:
			sf.AppendItem(NewItem(item))
			item = nil
		case RS:
			sf.AppendItem(NewItem(item))
			f.AppendSubfield(sf)
			sf = NewSubfield()
			item = nil
		case GS, FS:
			sf.AppendItem(NewItem(item))
			f.AppendSubfield(sf)

			return f, b, nil
		default:
			item = append(item, b)
		}
	}
}

// EncodeTaggedRecord writes r in the tagged dialect: each field's
// rendered tag, its subfields joined by RS with items joined by US, then
// GS between fields and a terminating FS, reproducing spec.md §4.7's
// framing exactly (including the raw image trailer for tagged image
// types).
func EncodeTaggedRecord(sink bytesio.Sink, r *Record) error {
	for _, f := range r.Fields {
		if err := encodeTaggedField(sink, f); err != nil {
			return err
		}
	}

	if r.HasFS {
		return sink.WriteU8(FS)
	}

	return nil
}

func encodeTaggedField(sink bytesio.Sink, f *Field) error {
	if err := sink.WriteBytes([]byte(f.Tag())); err != nil {
		return err
	}

	if f.RawImage {
		if err := sink.WriteBytes(f.Raw); err != nil {
			return err
		}

		return nil
	}

	for _, sf := range f.Subfields {
		for _, it := range sf.Items {
			if err := sink.WriteBytes(it.Value); err != nil {
				return err
			}
			if it.HasUS {
				if err := sink.WriteU8(US); err != nil {
					return err
				}
			}
		}

		if sf.HasRS {
			if err := sink.WriteU8(RS); err != nil {
				return err
			}
		}
	}

	if f.HasGS {
		return sink.WriteU8(GS)
	}

	return nil
}
