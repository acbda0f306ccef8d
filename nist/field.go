package nist

import "fmt"

// Field is identified by (record type, field number) and holds an
// ordered sequence of subfields, optionally flagged with a trailing
// group separator marking that another field follows it within the
// same record (spec.md §3 "NIST field").
//
// Binary-dialect records (Types 3, 4, 5, 6, 8) recover fields by fixed
// byte offset rather than by tag (spec.md §4.8); such a Field carries
// its raw bytes directly in Raw and ignores Subfields/tag rendering.
type Field struct {
	RecordType  int
	FieldNumber int
	Subfields   []*Subfield
	HasGS       bool

	// Binary is true for a positional field of a Type 3/4/5/6/8 record.
	// Raw holds its bytes directly; no tag or separator is rendered.
	Binary bool
	Raw    []byte

	// RawImage is true for the final field of a tagged image record
	// (Types 10, 13-17), conventionally ".999:", whose value is a
	// length-prefixed binary blob that must not be scanned for
	// embedded FS/GS/RS/US bytes (spec.md §4.7). Raw holds the blob;
	// the rendered tag still counts toward NumBytes.
	RawImage bool
}

// NewField builds a tagged Field from the given subfields, in order.
func NewField(recordType, fieldNumber int, subfields ...*Subfield) *Field {
	return &Field{RecordType: recordType, FieldNumber: fieldNumber, Subfields: subfields}
}

// NewBinaryField builds a positional Field carrying raw bytes, for the
// fixed-layout dialect.
func NewBinaryField(recordType, fieldNumber int, raw []byte) *Field {
	return &Field{RecordType: recordType, FieldNumber: fieldNumber, Binary: true, Raw: append([]byte(nil), raw...)}
}

// NewRawImageField builds the final field of a tagged image record: a
// rendered tag followed by an unscanned binary blob.
func NewRawImageField(recordType, fieldNumber int, raw []byte) *Field {
	return &Field{RecordType: recordType, FieldNumber: fieldNumber, RawImage: true, Raw: append([]byte(nil), raw...)}
}

// Tag renders the field's identifier string "<rt>.<fff>:" per spec.md
// §6.
func (f *Field) Tag() string {
	return fmt.Sprintf("%d.%03d:", f.RecordType, f.FieldNumber)
}

// NumBytes is the field's contribution to its enclosing record's size:
// for a binary field, just len(Raw); for a tagged field, the rendered
// tag plus every subfield plus its own trailing-separator byte.
func (f *Field) NumBytes() int {
	if f.Binary {
		return len(f.Raw)
	}

	if f.RawImage {
		n := len(f.Tag()) + len(f.Raw)
		if f.HasGS {
			n++
		}

		return n
	}

	n := len(f.Tag())
	for _, sf := range f.Subfields {
		n += sf.NumBytes()
	}

	if f.HasGS {
		n++
	}

	return n
}

// AppendSubfield adds sf to the end of f, marking the previous last
// subfield (if any) as followed by a record separator, per spec.md
// §4.6 "append_subfield(field, subfield): enable the predecessor
// subfield's trailing record-separator once".
func (f *Field) AppendSubfield(sf *Subfield) {
	if n := len(f.Subfields); n > 0 {
		f.Subfields[n-1].HasRS = true
	}

	f.Subfields = append(f.Subfields, sf)
}

// SoleItem returns the field's first subfield's first item, the common
// shape for single-valued tagged fields such as LEN, VER, or IMP. It
// returns nil if the field has no subfields or items.
func (f *Field) SoleItem() *Item {
	if len(f.Subfields) == 0 || len(f.Subfields[0].Items) == 0 {
		return nil
	}

	return f.Subfields[0].Items[0]
}

// Text renders a tagged field's sole item as a string; binary fields
// render as an empty string since their Raw is not textual.
func (f *Field) Text() string {
	if it := f.SoleItem(); it != nil {
		return it.String()
	}

	return ""
}
