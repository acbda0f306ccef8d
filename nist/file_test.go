package nist_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/pool"
	"github.com/halvorsen/biomdi/nist"
)

func buildType1Header() *nist.Record {
	r := nist.NewRecord(1, format.KindASCII)
	r.AppendField(nist.NewField(1, 1, nist.NewSubfield(nist.NewTextItem("0"))))
	r.AppendField(nist.NewField(1, 2, nist.NewSubfield(nist.NewTextItem("0300"))))
	r.AppendField(nist.NewCNTField())

	return r
}

func buildType14Record(idc uint8, image []byte) *nist.Record {
	r := nist.NewRecord(14, format.KindMixed)
	r.IDC = idc
	r.AppendField(nist.NewField(14, 1, nist.NewSubfield(nist.NewTextItem("0"))))
	r.AppendField(nist.NewField(14, 2, nist.NewSubfield(nist.NewTextItem(strconv.Itoa(int(idc))))))
	r.AppendField(nist.NewRawImageField(14, 999, image))

	return r
}

func encodeFile(t *testing.T, fl *nist.File) []byte {
	t.Helper()

	buf := pool.NewByteBuffer(4096)
	sink := bytesio.NewBufferSink(buf)
	require.NoError(t, nist.WriteFile(sink, fl))

	return append([]byte(nil), buf.Bytes()...)
}

// TestFileRoundTrip exercises spec.md's S5 scenario: a Type-1 header
// followed by one Type-14 record carrying an uncompressed image.
func TestFileRoundTrip(t *testing.T) {
	image := make([]byte, 64*64)
	for i := range image {
		image[i] = byte(i)
	}

	fl := nist.NewFile()
	fl.AppendRecord(buildType1Header())
	fl.AppendRecord(buildType14Record(1, image))
	fl.Recompute()

	cnt := fl.Records[0].Field(3)
	require.Len(t, cnt.Subfields, 2)
	require.Equal(t, "14", cnt.Subfields[1].Items[0].String())
	require.Equal(t, "1", cnt.Subfields[1].Items[1].String())

	encoded := encodeFile(t, fl)

	got, err := nist.ReadFile(bytesio.NewBufferSource(encoded))
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	require.Equal(t, 1, got.Records[0].Type)
	require.Equal(t, 14, got.Records[1].Type)
	require.Equal(t, image, got.Records[1].Fields[2].Raw)

	require.Equal(t, encoded, encodeFile(t, got))
}

// TestFileLengthConsistency exercises spec.md §8 property 2 at the file
// level: every record's declared LEN equals its actual serialized byte
// count after Recompute.
func TestFileLengthConsistency(t *testing.T) {
	fl := nist.NewFile()
	fl.AppendRecord(buildType1Header())
	fl.AppendRecord(buildType14Record(1, []byte("not-really-an-image")))
	fl.Recompute()

	for _, r := range fl.Records {
		declared, err := strconv.Atoi(r.LengthField().Text())
		require.NoError(t, err)
		require.Equal(t, r.NumBytes(), declared)
	}
}

func TestFileTruncationSalvage(t *testing.T) {
	fl := nist.NewFile()
	fl.AppendRecord(buildType1Header())
	fl.AppendRecord(buildType14Record(1, []byte("0123456789")))
	fl.Recompute()

	encoded := encodeFile(t, fl)
	truncated := encoded[:len(encoded)-3]

	got, err := nist.ReadFile(bytesio.NewBufferSource(truncated))
	require.Error(t, err)
	require.NotNil(t, got)
	require.Equal(t, 1, got.Records[0].Type)
}
