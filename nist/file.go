package nist

import "strconv"

// File is the root container: an ordered sequence of records, the first
// of which is always the Type-1 transaction header (spec.md §3 "NIST
// file"). It holds no version marker or declared size of its own;
// NumBytes computes the actual size from the records.
type File struct {
	Records []*Record
}

// NewFile returns an empty File.
func NewFile() *File { return &File{} }

// NumBytes sums every record's NumBytes; a File has no separator of its
// own (spec.md §3).
func (fl *File) NumBytes() int {
	n := 0
	for _, r := range fl.Records {
		n += r.NumBytes()
	}

	return n
}

// cntFieldNumber is Type-1's "CNT" field, the subrecord inventory that
// drives the reader's dispatch from one tagged record to the next
// (spec.md §4.7 "Record identification").
const cntFieldNumber = 3

// AppendRecord adds r to the end of fl, marking the previous last
// record (if any) as followed by a file separator (spec.md §4.6
// "append_record(file, record): if the file has a non-empty record
// list, the predecessor's trailing-separator flag is enabled").
//
// When fl's first record is a Type-1 header, AppendRecord also appends
// r's (type, idc) pair to the header's CNT field and bumps its total
// count, so the invariant spec.md's scenario S5 describes ("the Type-1's
// .003 CNT field lists exactly one Type-14 subrecord") holds
// automatically for callers building a file through this API, matching
// original_source/nbis/lib/an2k/append.c's biomeval_nbis_append_ANSI_NIST_record,
// which updates the header's CNT field as part of the same operation
// rather than leaving it to the caller.
func (fl *File) AppendRecord(r *Record) {
	if n := len(fl.Records); n > 0 {
		fl.Records[n-1].HasFS = true

		if fl.Records[0].Type == 1 && r.Type != 1 {
			addCNTEntry(fl.Records[0], r.Type, r.IDC)
		}
	}

	fl.Records = append(fl.Records, r)
}

// addCNTEntry appends a (type, idc) subfield to header's CNT field and
// increments the header-count subfield's total in place.
func addCNTEntry(header *Record, recordType int, idc uint8) {
	cnt := header.Field(cntFieldNumber)
	if cnt == nil || len(cnt.Subfields) == 0 {
		return
	}

	head := cnt.Subfields[0]
	if len(head.Items) < 2 {
		return
	}

	n, err := strconv.Atoi(head.Items[1].String())
	if err != nil {
		n = len(cnt.Subfields) - 1
	}

	head.Items[1].SetValue([]byte(strconv.Itoa(n + 1)))

	entry := NewSubfield(NewTextItem(strconv.Itoa(recordType)), NewTextItem(strconv.Itoa(int(idc))))
	cnt.AppendSubfield(entry)
}

// NewCNTField builds a Type-1 CNT field whose sole subfield so far is
// the "1,<n>" header entry spec.md's CNT convention requires (n starts
// at 1, counting the header record itself).
func NewCNTField() *Field {
	f := NewField(1, cntFieldNumber)
	f.AppendSubfield(NewSubfield(NewTextItem("1"), NewTextItem("1")))

	return f
}
