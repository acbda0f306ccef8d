package nist

import "github.com/halvorsen/biomdi/format"

// Record is identified by a type in 1..17 (11, 12, 18..98 reserved) and
// holds an ordered sequence of fields plus a flag for a trailing file
// separator, marking that another record follows it in the file
// (spec.md §3 "NIST record").
//
// By convention the record's declared-length field is always Fields[0]
// ("rt.001:" for a tagged record, the 4-byte LEN prefix for a binary
// one); Record.recomputeLength (model.go) relies on that placement.
type Record struct {
	Type int
	Kind format.RecordDataKind

	Fields []*Field
	HasFS  bool

	// IDC is the image designation character for binary-dialect
	// records (spec.md §4.8); tagged records carry their IDC as a
	// regular field instead.
	IDC uint8
}

// NewRecord builds an empty Record of the given type and data kind.
func NewRecord(recordType int, kind format.RecordDataKind) *Record {
	return &Record{Type: recordType, Kind: kind}
}

// NumBytes sums the record's fields plus its own trailing-separator
// byte, per spec.md §3's separator-accounting invariant.
func (r *Record) NumBytes() int {
	n := 0
	for _, f := range r.Fields {
		n += f.NumBytes()
	}

	if r.HasFS {
		n++
	}

	return n
}

// AppendField adds f to the end of r, marking the previous last field
// (if any) as followed by a group separator, and enabling r's own
// trailing file separator the first time a field is appended, per
// spec.md §4.6 "append_field(record, field): enable the record's
// trailing file-separator once; enable the predecessor field's trailing
// group-separator once".
func (r *Record) AppendField(f *Field) {
	if n := len(r.Fields); n > 0 {
		r.Fields[n-1].HasGS = true
	} else {
		r.HasFS = true
	}

	r.Fields = append(r.Fields, f)
}

// Field returns the first field with the given field number, or nil if
// none is present.
func (r *Record) Field(fieldNumber int) *Field {
	for _, f := range r.Fields {
		if f.FieldNumber == fieldNumber {
			return f
		}
	}

	return nil
}

// LengthField returns the record's declared-length field (Fields[0]),
// or nil for an empty record.
func (r *Record) LengthField() *Field {
	if len(r.Fields) == 0 {
		return nil
	}

	return r.Fields[0]
}
