package nistconform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/nist"
	"github.com/halvorsen/biomdi/nistconfig"
)

// cnumDelimiter separates the components of a CNum item (chkan2k.h's
// "multiple numbers combined into one item"); the original doesn't fix
// one, so this follows the legacy ANSI/NIST convention of a comma.
const cnumDelimiter = ","

// checkItemValue validates value against is's type domain (spec.md
// §4.9's item-domain table), consulting spec for a named list when is
// declares one. r is the enclosing record, used only by the Image
// domain to reach sibling HLL/VLL/BPX fields; it may be nil for any
// other domain. It returns a human-readable reason and false when the
// value fails; an empty string and true otherwise.
func checkItemValue(is *nistconfig.ItemSpec, value []byte, spec *nistconfig.Specification, r *nist.Record) (string, bool) {
	s := string(value)

	switch is.Type {
	case format.ItemNum:
		if msg, ok := checkNumComponent(s, is); !ok {
			return msg, false
		}

	case format.ItemSNum:
		if msg, ok := checkSNumComponent(s, is); !ok {
			return msg, false
		}

	case format.ItemCNum:
		for _, part := range strings.Split(s, cnumDelimiter) {
			part = strings.TrimSpace(part)
			if msg, ok := checkNumComponent(part, is); !ok {
				return fmt.Sprintf("component %q of compound value %q: %s", part, s, msg), false
			}
		}

	case format.ItemHex:
		if !isAllHex(s) {
			return fmt.Sprintf("value %q is not hexadecimal", s), false
		}

	case format.ItemFP:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Sprintf("value %q is not a floating point number", s), false
		}
		if is.HasRange && (f < is.Min || f > is.Max) {
			return fmt.Sprintf("value %v outside range [%v, %v]", f, is.Min, is.Max), false
		}

	case format.ItemDate:
		if len(s) != 8 || !isAllDigits(s) {
			return fmt.Sprintf("value %q is not an 8-digit CCYYMMDD date", s), false
		}
		if _, err := time.Parse("20060102", s); err != nil {
			return fmt.Sprintf("value %q is not a valid calendar date", s), false
		}

	case format.ItemGmt:
		if len(s) != 15 || s[14] != 'Z' || !isAllDigits(s[:14]) {
			return fmt.Sprintf("value %q is not a CCYYMMDDHHMMSSZ timestamp", s), false
		}
		if _, err := time.Parse("20060102150405Z", s); err != nil {
			return fmt.Sprintf("value %q is not a valid calendar date/time", s), false
		}

	case format.ItemImage:
		if msg, ok := checkImageDimensions(value, r, spec); !ok {
			return msg, false
		}

	case format.ItemStr, format.ItemBin:
		// Free-form; fall through to the list check below.
	}

	if is.List != "" {
		list, ok := spec.LookupList(is.List)
		if ok && !contains(list, s) {
			return fmt.Sprintf("value %q not in list %s", s, is.List), false
		}
	}

	return "", true
}

// checkNumComponent validates s as a Num item per chkan2k.h's ITM_NUM:
// "non-negative integer", unconditionally (not only when is.HasRange
// declares bounds).
func checkNumComponent(s string, is *nistconfig.ItemSpec) (string, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Sprintf("value %q is not a decimal integer", s), false
	}
	if n < 0 {
		return fmt.Sprintf("value %d is negative, Num requires a non-negative integer", n), false
	}
	if is.HasRange && (float64(n) < is.Min || float64(n) > is.Max) {
		return fmt.Sprintf("value %d outside range [%v, %v]", n, is.Min, is.Max), false
	}

	return "", true
}

// checkSNumComponent validates s as an SNum item per chkan2k.h's
// ITM_SNUM: "signed integer" — an optional leading sign followed by
// decimal digits, unlike Num no non-negative constraint applies.
func checkSNumComponent(s string, is *nistconfig.ItemSpec) (string, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Sprintf("value %q is not a signed decimal integer", s), false
	}
	if is.HasRange && (float64(n) < is.Min || float64(n) > is.Max) {
		return fmt.Sprintf("value %d outside range [%v, %v]", n, is.Min, is.Max), false
	}

	return "", true
}

// checkImageDimensions cross-checks an Image item's byte payload
// against its record's sibling HLL (horizontal line length), VLL
// (vertical line length), and BPX (bits per pixel) items, the way
// original_source/nbis/lib/an2k/decode.c's
// biomeval_nbis_decode_binary_field_image looks up HLL_ID/VLL_ID
// before trusting an image payload. A missing BPX skips the length
// check. The payload length is only cross-checked against declared
// dimensions when the sibling item "BIN_CA" reports "NONE" or is
// absent; a compressed payload's byte length legitimately
// differs from the raw pixel grid, so it is left unchecked here the
// same way the decoder only compares width/height after it has
// already decompressed the image.
func checkImageDimensions(value []byte, r *nist.Record, spec *nistconfig.Specification) (string, bool) {
	if r == nil {
		return "", true
	}

	hll, ok := lookupSiblingInt(r, spec, "HLL")
	if !ok {
		return "no sibling HLL field found for image dimension cross-check", false
	}
	vll, ok := lookupSiblingInt(r, spec, "VLL")
	if !ok {
		return "no sibling VLL field found for image dimension cross-check", false
	}

	bpx, hasBPX := lookupSiblingInt(r, spec, "BPX")
	if !hasBPX {
		return "", true
	}

	comp, hasComp := lookupSiblingStr(r, spec, "BIN_CA")
	if hasComp && !strings.EqualFold(strings.TrimSpace(comp), "NONE") {
		return "", true
	}

	expected := (hll*vll*bpx + 7) / 8
	if len(value) != expected {
		return fmt.Sprintf("image payload is %d bytes, HLL=%d x VLL=%d x BPX=%d implies %d", len(value), hll, vll, bpx, expected), false
	}

	return "", true
}

// lookupSiblingInt finds the field within r whose configured item name
// is itemName and parses its sole value as a decimal integer.
func lookupSiblingInt(r *nist.Record, spec *nistconfig.Specification, itemName string) (int, bool) {
	s, ok := lookupSiblingStr(r, spec, itemName)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return n, true
}

// lookupSiblingStr finds the field within r whose configured item name
// is itemName and returns its sole value as text.
func lookupSiblingStr(r *nist.Record, spec *nistconfig.Specification, itemName string) (string, bool) {
	for _, f := range r.Fields {
		fs, ok := spec.LookupField(r.Type, f.FieldNumber)
		if !ok || len(fs.Items) == 0 || !strings.EqualFold(fs.Items[0], itemName) {
			continue
		}
		if len(f.Subfields) == 0 || len(f.Subfields[0].Items) == 0 {
			continue
		}

		return f.Subfields[0].Items[0].String(), true
	}

	return "", false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAllHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
