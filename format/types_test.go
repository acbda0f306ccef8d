package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatStandardString(t *testing.T) {
	r := require.New(t)
	r.Equal("ANSI", ANSI.String())
	r.Equal("ISO_COMPACT_CARD", ISOCompactCard.String())
	r.Equal("Unknown", FormatStandard(0).String())
}

func TestIsCardFormat(t *testing.T) {
	r := require.New(t)
	r.True(ISONormalCard.IsCardFormat())
	r.True(ISOCompactCard.IsCardFormat())
	r.False(ANSI.IsCardFormat())
	r.False(ISO.IsCardFormat())
}

func TestImpressionTypeValidForFMR(t *testing.T) {
	r := require.New(t)
	for _, v := range []ImpressionType{LiveScanPlain, LiveScanRolled, NonLiveScanPlain, NonLiveScanRolled, Swipe, LiveScanContactless} {
		r.True(v.ValidForFMR(), "%v should be valid", v)
	}

	r.False(LatentLift.ValidForFMR())
	r.False(ImpressionType(99).ValidForFMR())
}

func TestEnumStringsFallBackToUnknown(t *testing.T) {
	r := require.New(t)
	r.Equal("Unknown", MinutiaType(99).String())
	r.Equal("Unknown", FedType(0).String())
	r.Equal("Unknown", ExtractionMethod(9).String())
	r.Equal("Unknown", Severity(0).String())
	r.Equal("Unknown", Category(0).String())
	r.Equal("Unknown", ItemType(0).String())
	r.Equal("Unknown", RecordDataKind(0).String())
}
