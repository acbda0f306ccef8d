package nist_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/nist"
)

func TestLookupAndSubstitute(t *testing.T) {
	fl := nist.NewFile()
	fl.AppendRecord(buildType1Header())
	fl.Recompute()

	it, err := fl.Lookup(nist.Undefined, 1, 2, nist.Undefined, nist.Undefined)
	require.NoError(t, err)
	require.Equal(t, "0300", it.String())

	require.NoError(t, fl.SubstituteItem(nist.Undefined, 1, 2, nist.Undefined, nist.Undefined, []byte("0400")))

	it2, err := fl.Lookup(nist.Undefined, 1, 2, nist.Undefined, nist.Undefined)
	require.NoError(t, err)
	require.Equal(t, "0400", it2.String())

	declared, err := fl.Lookup(nist.Undefined, 1, 1, nist.Undefined, nist.Undefined)
	require.NoError(t, err)

	n, err := strconv.Atoi(declared.String())
	require.NoError(t, err)
	require.Equal(t, fl.Records[0].NumBytes(), n)
}

func TestLookupMissingField(t *testing.T) {
	fl := nist.NewFile()
	fl.AppendRecord(buildType1Header())

	_, err := fl.Lookup(nist.Undefined, 1, 99, nist.Undefined, nist.Undefined)
	require.Error(t, err)
}

func TestRecordTypeClassHelpers(t *testing.T) {
	require.True(t, nist.IsBinaryRecordType(4))
	require.False(t, nist.IsBinaryRecordType(1))
	require.True(t, nist.IsTaggedImageType(14))
	require.False(t, nist.IsTaggedImageType(2))
}
