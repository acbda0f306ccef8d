package nist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/bytesio"
	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/pool"
	"github.com/halvorsen/biomdi/nist"
)

func TestBinaryRecordRoundTrip(t *testing.T) {
	payload := []byte("fixed-layout fingerprint image payload")

	r := nist.NewRecord(4, format.KindBinary)
	r.IDC = 2
	r.Fields = append(r.Fields,
		nist.NewBinaryField(4, 1, make([]byte, 4)),
		nist.NewBinaryField(4, 2, []byte{2}),
		nist.NewBinaryField(4, 3, payload),
	)
	r.Recompute()

	buf := pool.NewByteBuffer(256)
	sink := bytesio.NewBufferSink(buf)
	require.NoError(t, nist.EncodeBinaryRecord(sink, r))

	got, err := nist.DecodeBinaryRecord(bytesio.NewBufferSource(buf.Bytes()), 4)
	require.NoError(t, err)
	require.Equal(t, uint8(2), got.IDC)
	require.Equal(t, payload, got.Fields[2].Raw)
	require.Equal(t, r.NumBytes(), got.NumBytes())
}
