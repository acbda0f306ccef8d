// Package format holds the small closed enumerations shared across
// biomdi's subsystems, following the teacher's format package: a named
// integer type per concern plus a String method, so both the FMR codec
// and the NIST engine refer to the same vocabulary instead of redefining
// it per package.
package format

// FormatStandard selects one of the four FMD/FVMR/FMR binary dialects
// biomdi understands (spec.md §4.2, §6).
type FormatStandard uint8

const (
	ANSI FormatStandard = iota + 1
	ANSI07
	ISO
	ISONormalCard
	ISOCompactCard
)

func (f FormatStandard) String() string {
	switch f {
	case ANSI:
		return "ANSI"
	case ANSI07:
		return "ANSI07"
	case ISO:
		return "ISO"
	case ISONormalCard:
		return "ISO_NORMAL_CARD"
	case ISOCompactCard:
		return "ISO_COMPACT_CARD"
	default:
		return "Unknown"
	}
}

// IsCardFormat reports whether f is one of the two card dialects, which
// have no FVMR/FMR header and compute num_minutiae from the remaining
// bytes rather than an explicit count (spec.md §4.4).
func (f FormatStandard) IsCardFormat() bool {
	return f == ISONormalCard || f == ISOCompactCard
}

// MinutiaType is the minutia classification carried by an FMD.
type MinutiaType uint8

const (
	MinutiaOther MinutiaType = iota
	MinutiaRidgeEnding
	MinutiaBifurcation
)

func (m MinutiaType) String() string {
	switch m {
	case MinutiaOther:
		return "Other"
	case MinutiaRidgeEnding:
		return "RidgeEnding"
	case MinutiaBifurcation:
		return "Bifurcation"
	default:
		return "Unknown"
	}
}

// ImpressionType is the capture modality recorded on an FVMR (spec.md §6
// "Impression type set").
type ImpressionType uint8

const (
	LiveScanPlain       ImpressionType = 0
	LiveScanRolled      ImpressionType = 1
	NonLiveScanPlain    ImpressionType = 2
	NonLiveScanRolled   ImpressionType = 3
	LatentLift          ImpressionType = 7
	Swipe               ImpressionType = 8
	LiveScanContactless ImpressionType = 9
)

func (i ImpressionType) String() string {
	switch i {
	case LiveScanPlain:
		return "LiveScanPlain"
	case LiveScanRolled:
		return "LiveScanRolled"
	case NonLiveScanPlain:
		return "NonLiveScanPlain"
	case NonLiveScanRolled:
		return "NonLiveScanRolled"
	case LatentLift:
		return "LatentLift"
	case Swipe:
		return "Swipe"
	case LiveScanContactless:
		return "LiveScanContactless"
	default:
		return "Unknown"
	}
}

// ValidForFMR reports whether i is in the set the FMR validator accepts:
// {0,1,2,3,8,9}. LatentLift (7) is a valid value of the overall
// enumeration (spec.md §6) but is rejected by the FMR validator
// specifically (spec.md §4.4).
func (i ImpressionType) ValidForFMR() bool {
	switch i {
	case LiveScanPlain, LiveScanRolled, NonLiveScanPlain, NonLiveScanRolled, Swipe, LiveScanContactless:
		return true
	default:
		return false
	}
}

// FedType tags the payload carried by a Finger Extended Datum.
type FedType uint16

const (
	FedRidgeCount   FedType = 1
	FedCoreAndDelta FedType = 2
)

func (f FedType) String() string {
	switch f {
	case FedRidgeCount:
		return "RidgeCount"
	case FedCoreAndDelta:
		return "CoreAndDelta"
	default:
		return "Unknown"
	}
}

// ExtractionMethod is the ridge-counting method recorded in an RCDB.
type ExtractionMethod uint8

const (
	ExtractionNonSpecific   ExtractionMethod = 0
	ExtractionFourNeighbor  ExtractionMethod = 1
	ExtractionEightNeighbor ExtractionMethod = 2
)

func (m ExtractionMethod) String() string {
	switch m {
	case ExtractionNonSpecific:
		return "NonSpecific"
	case ExtractionFourNeighbor:
		return "FourNeighbor"
	case ExtractionEightNeighbor:
		return "EightNeighbor"
	default:
		return "Unknown"
	}
}

// Severity is a conformance-finding severity level (spec.md §4.9).
type Severity uint8

const (
	Fatal Severity = iota + 1
	Error
	Warning
	Info
	Debug
)

func (s Severity) String() string {
	switch s {
	case Fatal:
		return "Fatal"
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Category classifies *why* a conformance finding was raised (spec.md
// §4.9).
type Category uint8

const (
	CategoryExec Category = iota + 1
	CategoryConfig
	CategoryCheck
)

func (c Category) String() string {
	switch c {
	case CategoryExec:
		return "Exec"
	case CategoryConfig:
		return "Config"
	case CategoryCheck:
		return "Check"
	default:
		return "Unknown"
	}
}

// ItemType is the value-domain tag a configuration item declares for
// itself (spec.md §4.9).
type ItemType uint8

const (
	ItemNum ItemType = iota + 1
	ItemSNum
	ItemCNum
	ItemHex
	ItemFP
	ItemStr
	ItemBin
	ItemDate
	ItemGmt
	ItemImage
)

func (t ItemType) String() string {
	switch t {
	case ItemNum:
		return "Num"
	case ItemSNum:
		return "SNum"
	case ItemCNum:
		return "CNum"
	case ItemHex:
		return "Hex"
	case ItemFP:
		return "FP"
	case ItemStr:
		return "Str"
	case ItemBin:
		return "Bin"
	case ItemDate:
		return "Date"
	case ItemGmt:
		return "Gmt"
	case ItemImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// RecordDataKind classifies how a NIST record's fields are framed.
type RecordDataKind uint8

const (
	KindASCII RecordDataKind = iota + 1
	KindBinary
	KindMixed
)

func (k RecordDataKind) String() string {
	switch k {
	case KindASCII:
		return "ASCII"
	case KindBinary:
		return "Binary"
	case KindMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}
