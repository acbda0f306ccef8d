package nistconfig

import (
	"fmt"
	"strings"

	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/confighash"
)

// RecordSpec declares the kind (tagged ASCII/mixed or fixed binary) a
// record type is expected to use. Grounded on chkan2k.h's RECORD_SPEC.
type RecordSpec struct {
	Type int
	Kind format.RecordDataKind
}

// FieldSpec declares the occurrence and size bounds, the item list, and
// the required flag for one record-type/field-number pair.
// Grounded on chkan2k.h's FIELD_SPEC.
type FieldSpec struct {
	RecordType  int
	FieldNumber int

	Required bool

	// OccurMin/OccurMax bound how many subfields the field may carry;
	// zero OccurMax means unbounded.
	OccurMin int
	OccurMax int

	// SizeMin/SizeMax bound the byte length of each item value in the
	// field; zero SizeMax means unbounded.
	SizeMin int
	SizeMax int

	// Items names, in subfield-item order, the ItemSpec(s) each
	// subfield of this field must satisfy.
	Items []string
}

// Tag returns the field's "rr.fff:" form, matching nist.Field.Tag.
func (fs *FieldSpec) Tag() string {
	return fmt.Sprintf("%d.%03d:", fs.RecordType, fs.FieldNumber)
}

// ItemSpec declares the value domain for one named item: its type tag
// (spec.md §4.9 item domains) plus the bounds or enumerated list that
// type uses. Grounded on chkan2k.h's ITEM_SPEC.
type ItemSpec struct {
	Name string
	Type format.ItemType

	// HasRange reports whether Min/Max apply (ItemType Num, SNum, CNum,
	// FP). List names a CAN_LIST entry when Type requires an enumerated
	// value (Hex is commonly list-bound too).
	HasRange bool
	Min, Max float64
	List     string
}

// Specification is one configuration layer: the standards, records,
// fields, item domains, value lists, and free-form options a single
// configuration file (or the textual block compiled from it) declares.
// A Specification may chain to a Parent layer; every lookup walks from
// the receiver up through Parent so later (child) layers can override
// individual items without copying the base standard.
type Specification struct {
	// StandardTag identifies the standard this layer describes, e.g.
	// "ANSI/NIST-ITL 1-2011". Used only for diagnostics and fingerprinting.
	StandardTag string

	Records []*RecordSpec
	Fields  []*FieldSpec
	Items   map[string]*ItemSpec
	Lists   map[string][]string
	Options map[string]string

	Parent *Specification
}

// New returns an empty Specification ready for population by a loader
// or by direct field assignment in tests.
func New(standardTag string) *Specification {
	return &Specification{
		StandardTag: standardTag,
		Items:       map[string]*ItemSpec{},
		Lists:       map[string][]string{},
		Options:     map[string]string{},
	}
}

// Merge links s to a parent layer: lookups against s that miss fall
// through to parent, and then to parent's own parent, and so on. Merge
// does not enforce MaxConfigLayers; LoadChain does (spec.md §6).
func (s *Specification) Merge(parent *Specification) {
	s.Parent = parent
}

// LookupRecord walks s and its ancestors for a RecordSpec declaring
// recordType, returning the nearest (most-derived) match.
func (s *Specification) LookupRecord(recordType int) (*RecordSpec, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, rs := range cur.Records {
			if rs.Type == recordType {
				return rs, true
			}
		}
	}
	return nil, false
}

// LookupField walks s and its ancestors for a FieldSpec matching
// (recordType, fieldNumber).
func (s *Specification) LookupField(recordType, fieldNumber int) (*FieldSpec, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, fs := range cur.Fields {
			if fs.RecordType == recordType && fs.FieldNumber == fieldNumber {
				return fs, true
			}
		}
	}
	return nil, false
}

// FieldsForRecord returns every FieldSpec declared for recordType across
// s and its ancestors, most-derived layer first, skipping field numbers
// already contributed by a more-derived layer.
func (s *Specification) FieldsForRecord(recordType int) []*FieldSpec {
	var out []*FieldSpec
	seen := map[int]bool{}
	for cur := s; cur != nil; cur = cur.Parent {
		for _, fs := range cur.Fields {
			if fs.RecordType != recordType || seen[fs.FieldNumber] {
				continue
			}
			seen[fs.FieldNumber] = true
			out = append(out, fs)
		}
	}
	return out
}

// LookupItem walks s and its ancestors for a named ItemSpec.
func (s *Specification) LookupItem(name string) (*ItemSpec, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if it, ok := cur.Items[name]; ok {
			return it, true
		}
	}
	return nil, false
}

// LookupList walks s and its ancestors for a named value list.
func (s *Specification) LookupList(name string) ([]string, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if l, ok := cur.Lists[name]; ok {
			return l, true
		}
	}
	return nil, false
}

// LookupOption walks s and its ancestors for a named free-form option.
func (s *Specification) LookupOption(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.Options[name]; ok {
			return v, true
		}
	}
	return "", false
}

// Fingerprint hashes the chain of standard tags from root to s into a
// single uint64 via internal/confighash, so a conformance report can
// cite exactly which stack of configuration layers produced it without
// embedding the full text of every layer.
func (s *Specification) Fingerprint() uint64 {
	return confighash.Sum(s.summary())
}

func (s *Specification) summary() string {
	var tags []string
	for cur := s; cur != nil; cur = cur.Parent {
		tags = append(tags, cur.StandardTag)
	}
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return fmt.Sprintf("%s#%d", strings.Join(tags, ">"), len(tags))
}

// Depth returns the number of layers from s up to (and including) the
// root ancestor.
func (s *Specification) Depth() int {
	n := 0
	for cur := s; cur != nil; cur = cur.Parent {
		n++
	}
	return n
}
