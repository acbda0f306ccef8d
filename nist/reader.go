package nist

import (
	"strconv"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// cntEntry is one (record type, IDC) pair listed in the Type-1 header's
// CNT field, describing a record that follows it in the file.
type cntEntry struct {
	recordType int
	idc        int
}

// cntEntries reads header's CNT field (spec.md §4.7 "Type 1 is always
// tagged"), skipping its first subfield ("1,<total record count>", the
// header's own self-description).
func cntEntries(header *Record) ([]cntEntry, error) {
	cnt := header.Field(cntFieldNumber)
	if cnt == nil {
		return nil, nil
	}

	var entries []cntEntry

	for i, sf := range cnt.Subfields {
		if i == 0 {
			continue
		}
		if len(sf.Items) < 2 {
			return entries, errs.New(errs.Malformed, "CNT subfield %d has fewer than 2 items", i).In("Type-1", ".003")
		}

		rt, err := strconv.Atoi(sf.Items[0].String())
		if err != nil {
			return entries, errs.Wrap(errs.Malformed, err, "CNT entry %d record type", i).In("Type-1", ".003")
		}

		idc, err := strconv.Atoi(sf.Items[1].String())
		if err != nil {
			return entries, errs.Wrap(errs.Malformed, err, "CNT entry %d IDC", i).In("Type-1", ".003")
		}

		entries = append(entries, cntEntry{recordType: rt, idc: idc})
	}

	return entries, nil
}

// ReadFile decodes a complete transaction file: the Type-1 header,
// whose CNT field (spec.md §4.7) enumerates the (type, IDC) pairs of
// every record that follows, then each of those records in turn,
// dispatching to the binary or tagged decoder per spec.md §4.7's record
// identification rule.
//
// On a mid-record fatal error the current record is discarded and
// reading halts with the already-decoded prefix preserved (spec.md
// §4.10 "Failure semantics").
func ReadFile(src bytesio.Source) (*File, error) {
	header, err := DecodeTaggedRecord(src)
	if err != nil {
		return nil, err
	}
	if header.Type != 1 {
		return nil, errs.New(errs.Malformed, "first record must be Type-1, got Type-%d", header.Type).In("NIST", "")
	}

	fl := NewFile()
	fl.Records = append(fl.Records, header)

	entries, err := cntEntries(header)
	if err != nil {
		return fl, err
	}

	for _, e := range entries {
		var r *Record

		if IsBinaryRecordType(e.recordType) {
			r, err = DecodeBinaryRecord(src, e.recordType)
		} else {
			r, err = DecodeTaggedRecord(src)
		}

		if err != nil {
			return fl, err
		}

		r.IDC = uint8(e.idc)
		fl.Records = append(fl.Records, r)

		if r.Type != e.recordType {
			return fl, errs.New(errs.Malformed, "CNT declared type %d but record decoded as type %d", e.recordType, r.Type).In("NIST", "")
		}
	}

	return fl, nil
}

// DecodeRecord reads one record of the given type, dispatching to the
// binary or tagged decoder, for callers that already know the type
// (e.g. reconstructing a single record outside of a full file).
func DecodeRecord(src bytesio.Source, recordType int) (*Record, error) {
	if IsBinaryRecordType(recordType) {
		return DecodeBinaryRecord(src, recordType)
	}

	return DecodeTaggedRecord(src)
}

// dataKindOf is an unexported alias of dataKindForType within this
// package.
func dataKindOf(recordType int) format.RecordDataKind { return dataKindForType(recordType) }
