package nist

import (
	"encoding/binary"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// Binary-dialect field numbers, assigned by position rather than tag
// (spec.md §4.8): a 4-byte LEN, a 1-byte IDC, then the record-specific
// payload.
const (
	binaryFieldLen     = 1
	binaryFieldIDC     = 2
	binaryFieldPayload = 3

	binaryHeaderSize = 5 // LEN (4) + IDC (1)
)

// DecodeBinaryRecord reads one Type 3/4/5/6/8 record: a 4-byte
// big-endian LEN, a 1-byte IDC, then LEN-5 payload bytes recovered by
// position rather than by tag (spec.md §4.8).
//
// Grounded on original_source/nbis/lib/an2k/read.c's
// biomeval_nbis_read_binary_uint/biomeval_nbis_read_binary_uchar pair, which this
// collapses into the shared bytesio.Source interface.
func DecodeBinaryRecord(src bytesio.Source, recordType int) (*Record, error) {
	lenRaw, err := src.ReadBytes(4)
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "binary record LEN").In("NIST", "LEN")
	}

	total := binary.BigEndian.Uint32(lenRaw)

	idcRaw, err := src.ReadBytes(1)
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "binary record IDC").In("NIST", "IDC")
	}

	if total < binaryHeaderSize {
		return nil, errs.New(errs.Malformed, "binary record LEN %d below minimum header size %d", total, binaryHeaderSize).In("NIST", "LEN")
	}

	payloadLen := int(total) - binaryHeaderSize

	payload, err := src.ReadBytes(payloadLen)
	if err != nil {
		return nil, errs.Wrap(errs.EndOfData, err, "binary record payload").In("NIST", "payload")
	}

	r := NewRecord(recordType, format.KindBinary)
	r.IDC = idcRaw[0]
	r.Fields = append(r.Fields,
		NewBinaryField(recordType, binaryFieldLen, lenRaw),
		NewBinaryField(recordType, binaryFieldIDC, idcRaw),
		NewBinaryField(recordType, binaryFieldPayload, payload),
	)

	return r, nil
}

// EncodeBinaryRecord writes r's three positional fields back out in
// order: LEN, IDC, payload. Unlike the tagged dialect, no separator
// bytes are ever emitted.
func EncodeBinaryRecord(sink bytesio.Sink, r *Record) error {
	for _, f := range r.Fields {
		if err := sink.WriteBytes(f.Raw); err != nil {
			return err
		}
	}

	return nil
}
