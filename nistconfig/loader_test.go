package nistconfig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/nistconfig"
)

const baseConfig = `
# base ANSI/NIST layer
standard "AN2K-BASE" {
	record 1 {
		kind ASCII
	}
	record 4 {
		kind BINARY
	}
	field 1.002 {
		occ 1 1
		size 4 4
		item VER
		required true
	}
	item VER {
		type Num
		min 0300
		max 0501
	}
	list IMPTYPE {
		values 0 1 2 3 7 8 9
	}
	option strict false
}
`

const overlayConfig = `
standard "AN2K-SITE" {
	field 1.002 {
		occ 1 1
		size 4 4
		item VER
		required true
	}
	option "strict" {
		value "true"
	}
}
`

func TestLoadBytesBasic(t *testing.T) {
	spec, err := nistconfig.LoadBytes([]byte(baseConfig), "base.cfg")
	require.NoError(t, err)
	require.Equal(t, "AN2K-BASE", spec.StandardTag)

	rs, ok := spec.LookupRecord(1)
	require.True(t, ok)
	require.Equal(t, format.KindASCII, rs.Kind)

	rs4, ok := spec.LookupRecord(4)
	require.True(t, ok)
	require.Equal(t, format.KindBinary, rs4.Kind)

	fs, ok := spec.LookupField(1, 2)
	require.True(t, ok)
	require.True(t, fs.Required)
	require.Equal(t, 1, fs.OccurMin)
	require.Equal(t, 1, fs.OccurMax)
	require.Equal(t, []string{"VER"}, fs.Items)

	item, ok := spec.LookupItem("VER")
	require.True(t, ok)
	require.Equal(t, format.ItemNum, item.Type)
	require.True(t, item.HasRange)

	list, ok := spec.LookupList("IMPTYPE")
	require.True(t, ok)
	require.Equal(t, []string{"0", "1", "2", "3", "7", "8", "9"}, list)

	opt, ok := spec.LookupOption("strict")
	require.True(t, ok)
	require.Equal(t, "false", opt)
}

func TestSpecificationMergeOverridesParent(t *testing.T) {
	base, err := nistconfig.LoadBytes([]byte(baseConfig), "base.cfg")
	require.NoError(t, err)

	overlay, err := nistconfig.LoadBytes([]byte(overlayConfig), "overlay.cfg")
	require.NoError(t, err)

	overlay.Merge(base)

	opt, ok := overlay.LookupOption("strict")
	require.True(t, ok)
	require.Equal(t, "true", opt, "child layer option must win over parent")

	// Record 4 is only declared in the base layer; it must still be
	// reachable by walking Parent from the child.
	rs, ok := overlay.LookupRecord(4)
	require.True(t, ok)
	require.Equal(t, format.KindBinary, rs.Kind)

	require.Equal(t, 2, overlay.Depth())
}

func TestFingerprintStable(t *testing.T) {
	base, err := nistconfig.LoadBytes([]byte(baseConfig), "base.cfg")
	require.NoError(t, err)

	overlay, err := nistconfig.LoadBytes([]byte(overlayConfig), "overlay.cfg")
	require.NoError(t, err)
	overlay.Merge(base)

	f1 := overlay.Fingerprint()
	f2 := overlay.Fingerprint()
	require.Equal(t, f1, f2)

	require.NotEqual(t, f1, base.Fingerprint())
}

func TestLoadBytesMissingStandardBlock(t *testing.T) {
	_, err := nistconfig.LoadBytes([]byte("record 1 {\n kind ASCII \n}\n"), "bad.cfg")
	require.Error(t, err)
}

func TestLoadBytesUnterminatedBlock(t *testing.T) {
	_, err := nistconfig.LoadBytes([]byte("standard \"X\" {\n record 1 {\n"), "bad.cfg")
	require.Error(t, err)
}

func TestLoadChainRejectsTooManyLayers(t *testing.T) {
	paths := make([]string, nistconfig.MaxConfigLayers+1)
	for i := range paths {
		paths[i] = "unused.cfg"
	}

	_, err := nistconfig.LoadChain(paths...)
	require.Error(t, err)
}
