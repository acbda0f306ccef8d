// Package nist implements the ANSI/NIST tagged/binary transaction-file
// engine: an in-memory File/Record/Field/Subfield/Item hierarchy, a
// byte-exact reader and writer for both the tagged (rr.fff: ... FS) and
// fixed-layout binary (Types 3, 4, 5, 6, 8) dialects, and the
// separator-accounting bookkeeping that keeps every container's declared
// length correct through mutation (spec.md §3, §4.6-§4.8).
//
// Grounded on original_source/nbis/lib/an2k/{read,append,update,decode,
// type1314}.c: this package replaces their TAILQ-based intrusive lists
// and fp/AN2KBDB dual read paths with owned Go slices and the bytesio
// Source/Sink abstraction (spec.md §9), but keeps their separation of
// "parse the wire bytes" (tagged.go, binary.go), "mutate the tree"
// (model.go), and "fix up declared lengths after mutation"
// (Record.recomputeLength, File.Recompute) distinct, matching
// update.c's separation of mutation from length fixup.
package nist

// Separator bytes per spec.md §6.
const (
	FS byte = 0x1C // file/record separator
	GS byte = 0x1D // group separator, between fields in a record
	RS byte = 0x1E // record separator, between subfields in a field
	US byte = 0x1F // unit separator, between items in a subfield
)

// Undefined marks a "not specified, operate at this level" path
// component for Lookup, matching spec.md §4.6 "each axis may be
// Undefined meaning operate at that level".
const Undefined = -1

// TaggedImageTypes are the record types whose final field carries a
// length-prefixed binary image blob inside otherwise-tagged framing
// (spec.md §4.7, §6).
var TaggedImageTypes = map[int]bool{10: true, 13: true, 14: true, 15: true, 16: true, 17: true}

// BinaryRecordTypes are the record types with fixed-offset binary
// layout rather than tagged fields (spec.md §4.8, §6).
var BinaryRecordTypes = map[int]bool{3: true, 4: true, 5: true, 6: true, 8: true}

// IsBinaryRecordType reports whether t uses the fixed-layout binary
// dialect instead of tagged framing.
func IsBinaryRecordType(t int) bool { return BinaryRecordTypes[t] }

// IsTaggedImageType reports whether t is a tagged record type whose
// last field ends in a raw image blob rather than separator-delimited
// text.
func IsTaggedImageType(t int) bool { return TaggedImageTypes[t] }
