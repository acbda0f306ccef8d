package nistconform

import (
	"fmt"

	"github.com/halvorsen/biomdi/format"
	"github.com/halvorsen/biomdi/internal/options"
	"github.com/halvorsen/biomdi/nist"
	"github.com/halvorsen/biomdi/nistconfig"
)

// Checker walks a decoded nist.File against a nistconfig.Specification.
type Checker struct {
	spec             *nistconfig.Specification
	stopOnFirstFatal bool
}

// CheckerOption configures a Checker; apply with NewChecker.
type CheckerOption = options.Option[*Checker]

// WithFirstFatalStop stops Check as soon as a Fatal finding is raised,
// rather than walking the remainder of the file.
func WithFirstFatalStop() CheckerOption {
	return options.NoError(func(c *Checker) { c.stopOnFirstFatal = true })
}

// NewChecker builds a Checker bound to spec, with the given options
// applied.
func NewChecker(spec *nistconfig.Specification, opts ...CheckerOption) (*Checker, error) {
	c := &Checker{spec: spec}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Check walks every record in fl, reporting one Finding per violation
// found. It never stops early unless WithFirstFatalStop was given and a
// Fatal finding is raised.
func (c *Checker) Check(fl *nist.File) *Result {
	res := NewResult()
	res.SpecFingerprint = c.spec.Fingerprint()

	for i, r := range fl.Records {
		c.checkRecord(res, i, r)
		if c.stopOnFirstFatal && res.HasFatal() {
			break
		}
	}

	return res
}

func (c *Checker) checkRecord(res *Result, index int, r *nist.Record) {
	label := fmt.Sprintf("Type-%d[%d]", r.Type, index)

	rs, ok := c.spec.LookupRecord(r.Type)
	if !ok {
		res.Add(format.Warning, format.CategoryConfig, label, "", "record type %d not declared in configuration", r.Type)
		return
	}

	if rs.Kind != r.Kind {
		res.Add(format.Error, format.CategoryCheck, label, "", "record kind %s does not match configured kind %s", r.Kind, rs.Kind)
	}

	seen := map[int]bool{}
	for _, f := range r.Fields {
		if f.FieldNumber == 1 {
			// LEN is framing, not a conformance subject.
			continue
		}
		seen[f.FieldNumber] = true
		c.checkField(res, label, r, f)
	}

	for _, fs := range c.spec.FieldsForRecord(r.Type) {
		if fs.Required && !seen[fs.FieldNumber] {
			res.Add(format.Error, format.CategoryCheck, label, fs.Tag(), "required field missing")
		}
	}
}

func (c *Checker) checkField(res *Result, label string, r *nist.Record, f *nist.Field) {
	fieldLoc := f.Tag()

	fs, ok := c.spec.LookupField(r.Type, f.FieldNumber)
	if !ok {
		res.Add(format.Info, format.CategoryConfig, label, fieldLoc, "field not declared in configuration")
		return
	}

	if f.Binary || f.RawImage {
		// Positional binary payloads and raw image blobs carry no
		// subfield/item structure, but may still declare a single
		// Image-domain item whose dimensions are cross-checked against
		// sibling HLL/VLL/BPX fields.
		c.checkImageField(res, label, fieldLoc, r, f, fs)
		return
	}

	n := len(f.Subfields)
	if fs.OccurMin > 0 && n < fs.OccurMin {
		res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "subfield count %d below minimum %d", n, fs.OccurMin)
	}
	if fs.OccurMax > 0 && n > fs.OccurMax {
		res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "subfield count %d exceeds maximum %d", n, fs.OccurMax)
	}

	for si, sf := range f.Subfields {
		c.checkSubfield(res, label, fieldLoc, si, fs, sf, r)
	}
}

func (c *Checker) checkImageField(res *Result, label, fieldLoc string, r *nist.Record, f *nist.Field, fs *nistconfig.FieldSpec) {
	if len(fs.Items) == 0 {
		return
	}

	itemName := fs.Items[0]
	itemSpec, ok := c.spec.LookupItem(itemName)
	if !ok || itemSpec.Type != format.ItemImage {
		return
	}

	if msg, ok := checkItemValue(itemSpec, f.Raw, c.spec, r); !ok {
		res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "item %q: %s", itemName, msg)
	}
}

func (c *Checker) checkSubfield(res *Result, label, fieldLoc string, si int, fs *nistconfig.FieldSpec, sf *nist.Subfield, r *nist.Record) {
	for ii, it := range sf.Items {
		if fs.SizeMax > 0 && len(it.Value) > fs.SizeMax {
			res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "subfield %d item %d length %d exceeds maximum %d", si, ii, len(it.Value), fs.SizeMax)
		}
		if fs.SizeMin > 0 && len(it.Value) < fs.SizeMin {
			res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "subfield %d item %d length %d below minimum %d", si, ii, len(it.Value), fs.SizeMin)
		}

		if ii >= len(fs.Items) {
			continue
		}

		itemName := fs.Items[ii]
		itemSpec, ok := c.spec.LookupItem(itemName)
		if !ok {
			res.Add(format.Info, format.CategoryConfig, label, fieldLoc, "item %q not declared in configuration", itemName)
			continue
		}

		if msg, ok := checkItemValue(itemSpec, it.Value, c.spec, r); !ok {
			res.Add(format.Error, format.CategoryCheck, label, fieldLoc, "subfield %d item %d (%s): %s", si, ii, itemName, msg)
		}
	}
}
