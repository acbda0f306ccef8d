package nistconform

import (
	"fmt"

	"github.com/halvorsen/biomdi/format"
)

// Finding is one conformance complaint raised against a decoded record,
// field, or item. Unlike fmr.Finding (which is always errs.Invalid),
// a Finding here carries its own Severity and Category, since a
// specification-driven check can raise anything from a Debug-level
// configuration note to a Fatal structural mismatch.
type Finding struct {
	Severity format.Severity
	Category format.Category
	Record   string
	Field    string
	Message  string
}

func (f Finding) String() string {
	loc := f.Record
	if f.Field != "" {
		loc += f.Field
	}

	return fmt.Sprintf("[%s/%s] %s: %s", f.Severity, f.Category, loc, f.Message)
}

// Result accumulates Findings across a Checker.Check call, mirroring
// chkan2k.h's CAN_CONTEXT result log: every finding is kept regardless
// of severity, with per-severity counts available for a caller that
// wants to treat, say, any Fatal as a hard failure while tolerating
// Warning and below.
type Result struct {
	findings []Finding
	counts   [format.Debug + 1]int

	// SpecFingerprint records the Specification.Fingerprint() of the
	// configuration stack a Checker ran against, so two reports can be
	// compared without re-printing the whole configuration chain.
	SpecFingerprint uint64
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Reset clears r for reuse against a new file, keeping the allocated
// findings slice's backing array (spec.md §5's shared-accumulator
// exception).
func (r *Result) Reset() {
	r.findings = r.findings[:0]
	r.counts = [format.Debug + 1]int{}
	r.SpecFingerprint = 0
}

// Add records one finding.
func (r *Result) Add(severity format.Severity, category format.Category, record, field, msg string, args ...any) {
	r.findings = append(r.findings, Finding{
		Severity: severity,
		Category: category,
		Record:   record,
		Field:    field,
		Message:  fmt.Sprintf(msg, args...),
	})
	r.counts[severity]++
}

// Findings returns all accumulated findings, in the order they were
// raised.
func (r *Result) Findings() []Finding {
	return r.findings
}

// Count reports how many findings were raised at the given severity.
func (r *Result) Count(severity format.Severity) int {
	if int(severity) >= len(r.counts) {
		return 0
	}
	return r.counts[severity]
}

// HasFatal reports whether any Fatal-severity finding was raised.
func (r *Result) HasFatal() bool {
	return r.Count(format.Fatal) > 0
}

// OK reports whether no finding at Error severity or worse was raised.
func (r *Result) OK() bool {
	return r.Count(format.Fatal) == 0 && r.Count(format.Error) == 0
}

// Merge appends other's findings and counts onto r.
func (r *Result) Merge(other *Result) {
	r.findings = append(r.findings, other.findings...)
	for sev, n := range other.counts {
		r.counts[sev] += n
	}
}
