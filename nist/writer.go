package nist

import (
	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/pool"
)

// EncodeRecord writes r using the dialect implied by r.Kind: the fixed
// positional layout for Binary records, tagged framing otherwise
// (spec.md §4.7, §4.8).
func EncodeRecord(sink bytesio.Sink, r *Record) error {
	if r.Kind == format.KindBinary {
		return EncodeBinaryRecord(sink, r)
	}

	return EncodeTaggedRecord(sink, r)
}

// WriteFile writes every record of fl in order, the inverse of ReadFile.
// It emits each LEN field as it stands and does not recompute lengths;
// after a mutation, fl.Recompute() brings the LEN fields into agreement
// with the bytes WriteFile emits.
func WriteFile(sink bytesio.Sink, fl *File) error {
	for _, r := range fl.Records {
		if err := EncodeRecord(sink, r); err != nil {
			return err
		}
	}

	return nil
}

// WriteFileBytes serializes fl through the pooled file buffer (sized
// for a full transaction file, including any image trailer) and
// returns a fresh copy of the result. Callers should call fl.Recompute
// first if they mutated any record.
func WriteFileBytes(fl *File) ([]byte, error) {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	sink := bytesio.NewBufferSink(buf)
	if err := WriteFile(sink, fl); err != nil {
		return nil, err
	}

	out := make([]byte, len(sink.Bytes()))
	copy(out, sink.Bytes())

	return out, nil
}
