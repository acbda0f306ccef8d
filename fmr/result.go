package fmr

import (
	"fmt"

	"github.com/halvorsen/biomdi/errs"
)

// Finding is one validation complaint raised against a decoded FMD,
// FVMR, or FMR tree. Every Finding carries errs.Invalid, per spec.md §7
// ("Invalid ... produced only by the validators, never by the codecs");
// the conformance checker in nistconform uses its own, differently
// shaped Result with Severity/Category, since it validates against a
// configurable specification rather than a fixed set of structural
// rules.
type Finding struct {
	Record  string
	Field   string
	Message string
}

func (f Finding) String() string {
	loc := f.Record
	if f.Field != "" {
		loc += f.Field
	}

	return fmt.Sprintf("%s: %s", loc, f.Message)
}

// AsError renders f as an *errs.Error of kind Invalid, for callers that
// want the first finding surfaced the way a codec failure would be.
func (f Finding) AsError() *errs.Error {
	return errs.New(errs.Invalid, "%s", f.Message).In(f.Record, f.Field)
}

// Result accumulates Findings across a validate() call, following
// validate.c's ERRP-style accumulate-and-continue pattern: a single bad
// field never aborts validation of the rest of the tree.
type Result struct {
	findings []Finding
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Add records one finding.
func (r *Result) Add(record, field, format string, args ...any) {
	r.findings = append(r.findings, Finding{
		Record:  record,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Findings returns all accumulated findings, in the order they were
// raised.
func (r *Result) Findings() []Finding {
	return r.findings
}

// OK reports whether no finding was recorded.
func (r *Result) OK() bool {
	return len(r.findings) == 0
}

// Merge appends other's findings onto r. The validators in this package
// share one Result and do not call it.
func (r *Result) Merge(other *Result) {
	r.findings = append(r.findings, other.findings...)
}
