package nistconform

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/nist"
	"github.com/halvorsen/biomdi/nistconfig"
)

func TestCheckItemValueDate(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "DAT", Type: format.ItemDate}

	_, ok := checkItemValue(is, []byte("20240131"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("20240231"), spec, nil)
	require.False(t, ok, "February 31st is not a valid calendar date")

	_, ok = checkItemValue(is, []byte("2024013"), spec, nil)
	require.False(t, ok, "wrong digit count")
}

func TestCheckItemValueGmt(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "GMT", Type: format.ItemGmt}

	_, ok := checkItemValue(is, []byte("20240131235959Z"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("20240131246000Z"), spec, nil)
	require.False(t, ok, "hour 24 is not a valid time of day")

	_, ok = checkItemValue(is, []byte("20240131235959"), spec, nil)
	require.False(t, ok, "missing Z suffix")
}

func TestCheckItemValueNumRange(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "VER", Type: format.ItemNum, HasRange: true, Min: 300, Max: 501}

	_, ok := checkItemValue(is, []byte("400"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("999"), spec, nil)
	require.False(t, ok)
}

func TestCheckItemValueNumRejectsNegativeAndFloat(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "FGP", Type: format.ItemNum}

	_, ok := checkItemValue(is, []byte("12"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("-5"), spec, nil)
	require.False(t, ok, "Num is non-negative unconditionally, even with no declared range")

	_, ok = checkItemValue(is, []byte("3.7"), spec, nil)
	require.False(t, ok, "Num is an integer, not a float")
}

func TestCheckItemValueSNumAllowsSignButNotFloat(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "OFF", Type: format.ItemSNum}

	_, ok := checkItemValue(is, []byte("-17"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("17"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("-1.5"), spec, nil)
	require.False(t, ok, "SNum is a signed integer, not a float")
}

func TestCheckItemValueCNumValidatesEachComponent(t *testing.T) {
	spec := nistconfig.New("TEST")
	is := &nistconfig.ItemSpec{Name: "PAT", Type: format.ItemCNum}

	_, ok := checkItemValue(is, []byte("1,2,3"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("1,-2,3"), spec, nil)
	require.False(t, ok, "a negative component violates Num's non-negative rule")

	_, ok = checkItemValue(is, []byte("1,2.5,3"), spec, nil)
	require.False(t, ok, "a non-integer component is not a valid Num")
}

func TestCheckItemValueList(t *testing.T) {
	spec := nistconfig.New("TEST")
	spec.Lists["IMPTYPE"] = []string{"0", "1", "2"}
	is := &nistconfig.ItemSpec{Name: "IMP", Type: format.ItemStr, List: "IMPTYPE"}

	_, ok := checkItemValue(is, []byte("1"), spec, nil)
	require.True(t, ok)

	_, ok = checkItemValue(is, []byte("99"), spec, nil)
	require.False(t, ok)
}

func buildImageRecord(t *testing.T, hll, vll, bpx int, compression string, image []byte) (*nist.Record, *nistconfig.Specification) {
	t.Helper()

	spec := nistconfig.New("TEST")
	spec.Fields = append(spec.Fields,
		&nistconfig.FieldSpec{RecordType: 14, FieldNumber: 4, Items: []string{"BIN_CA"}},
		&nistconfig.FieldSpec{RecordType: 14, FieldNumber: 6, Items: []string{"HLL"}},
		&nistconfig.FieldSpec{RecordType: 14, FieldNumber: 7, Items: []string{"VLL"}},
		&nistconfig.FieldSpec{RecordType: 14, FieldNumber: 12, Items: []string{"BPX"}},
		&nistconfig.FieldSpec{RecordType: 14, FieldNumber: 999, Items: []string{"DATA"}},
	)
	spec.Items["DATA"] = &nistconfig.ItemSpec{Name: "DATA", Type: format.ItemImage}

	r := nist.NewRecord(14, format.KindMixed)
	if compression != "" {
		r.AppendField(nist.NewField(14, 4, nist.NewSubfield(nist.NewTextItem(compression))))
	}
	r.AppendField(nist.NewField(14, 6, nist.NewSubfield(nist.NewTextItem(strconv.Itoa(hll)))))
	r.AppendField(nist.NewField(14, 7, nist.NewSubfield(nist.NewTextItem(strconv.Itoa(vll)))))
	r.AppendField(nist.NewField(14, 12, nist.NewSubfield(nist.NewTextItem(strconv.Itoa(bpx)))))
	r.AppendField(nist.NewRawImageField(14, 999, image))

	return r, spec
}

func TestCheckImageDimensionsUncompressedMatch(t *testing.T) {
	is := &nistconfig.ItemSpec{Name: "DATA", Type: format.ItemImage}
	r, spec := buildImageRecord(t, 8, 8, 8, "NONE", make([]byte, 64))

	_, ok := checkItemValue(is, r.Field(999).Raw, spec, r)
	require.True(t, ok)
}

func TestCheckImageDimensionsUncompressedMismatch(t *testing.T) {
	is := &nistconfig.ItemSpec{Name: "DATA", Type: format.ItemImage}
	r, spec := buildImageRecord(t, 8, 8, 8, "NONE", make([]byte, 10))

	_, ok := checkItemValue(is, r.Field(999).Raw, spec, r)
	require.False(t, ok, "declared HLL/VLL/BPX imply 64 bytes, payload is 10")
}

func TestCheckImageDimensionsCompressedSkipsLengthCheck(t *testing.T) {
	is := &nistconfig.ItemSpec{Name: "DATA", Type: format.ItemImage}
	r, spec := buildImageRecord(t, 512, 512, 8, "WSQ", make([]byte, 10))

	_, ok := checkItemValue(is, r.Field(999).Raw, spec, r)
	require.True(t, ok, "a compressed payload's byte length isn't checked against raw HLL x VLL x BPX")
}

func TestCheckImageDimensionsMissingHLLIsInvalid(t *testing.T) {
	is := &nistconfig.ItemSpec{Name: "DATA", Type: format.ItemImage}

	spec := nistconfig.New("TEST")
	spec.Fields = append(spec.Fields, &nistconfig.FieldSpec{RecordType: 14, FieldNumber: 999, Items: []string{"DATA"}})
	spec.Items["DATA"] = is

	r := nist.NewRecord(14, format.KindMixed)
	r.AppendField(nist.NewRawImageField(14, 999, make([]byte, 10)))

	_, ok := checkItemValue(is, r.Field(999).Raw, spec, r)
	require.False(t, ok, "no sibling HLL field means the image dimensions can't be cross-checked")
}
