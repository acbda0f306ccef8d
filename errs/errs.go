// Package errs defines the error vocabulary shared by every biomdi
// subsystem: the FMD/FVMR/FMR codec, the NIST tagged/binary record
// engine, and the configuration-driven conformance checker.
//
// Every fallible operation in the codec, NIST and configuration packages
// returns one of the sentinel Kind values below, optionally wrapped with
// positional context via Wrap; imgcodec's registry lookups return plain
// errors instead. Callers discriminate with errors.Is against the sentinels, or
// errors.As against *Error to recover the Kind and context.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the broad category of a failure, per spec.md "7. ERROR
// HANDLING DESIGN".
type Kind int

const (
	// EndOfData indicates the byte source was exhausted before the
	// current element finished decoding.
	EndOfData Kind = iota + 1
	// Io indicates the underlying stream failed independently of the
	// record framing (a read/write/seek error on the handle itself).
	Io
	// Malformed indicates a structural invariant was violated during
	// parsing: bad magic, an impossible length, a declared count that
	// exceeds the remaining bytes.
	Malformed
	// Invalid indicates a well-formed value is out of its domain. Only
	// validators produce this kind; codecs never do.
	Invalid
	// Unsupported indicates a recognized but unimplemented variant, such
	// as a lookup that targets a binary field's non-existent subfields.
	Unsupported
	// Overflow indicates a sink, or a length field, cannot represent the
	// value that must be written.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case EndOfData:
		return "EndOfData"
	case Io:
		return "Io"
	case Malformed:
		return "Malformed"
	case Invalid:
		return "Invalid"
	case Unsupported:
		return "Unsupported"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// sentinel is a bare Kind used as a target for errors.Is. Every exported
// Kind below is wired as both the comparable target and the zero-context
// representative error of that Kind.
type sentinel Kind

func (s sentinel) Error() string { return Kind(s).String() }

// The following sentinels are the canonical errors.Is targets for each
// Kind. Wrap(EndOfData, ...) and similar produce richer *Error values
// that still satisfy errors.Is(err, EndOfDataErr).
var (
	EndOfDataErr   error = sentinel(EndOfData)
	IoErr          error = sentinel(Io)
	MalformedErr   error = sentinel(Malformed)
	InvalidErr     error = sentinel(Invalid)
	UnsupportedErr error = sentinel(Unsupported)
	OverflowErr    error = sentinel(Overflow)
)

// Error carries a Kind plus positional context: the byte offset at which
// the failure was detected, and, when applicable, the record/field path
// that was being decoded.
type Error struct {
	Kind     Kind
	Pos      int64  // byte offset, -1 if not applicable
	Record   string // e.g. "FVMR[2]" or "Type-14"
	Field    string // e.g. ".002" or "FMD[3].angle"
	Message  string
	Partial  bool // EndOfData only: a salvageable prefix was decoded
	wrapped  error
}

func (e *Error) Error() string {
	loc := ""
	if e.Record != "" {
		loc = e.Record
		if e.Field != "" {
			loc += e.Field
		}
		loc += ": "
	}

	pos := ""
	if e.Pos >= 0 {
		pos = fmt.Sprintf(" (at offset %d)", e.Pos)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s%s: %s%s", loc, e.Kind, e.Message, pos)
	}

	return fmt.Sprintf("%s%s%s", loc, e.Kind, pos)
}

// Unwrap lets errors.Is(err, errs.EndOfDataErr) succeed for any *Error
// built with this Kind, and also exposes a nested cause when one was
// supplied to Wrap.
func (e *Error) Unwrap() []error {
	target := sentinelFor(e.Kind)
	if e.wrapped == nil {
		return []error{target}
	}

	return []error{target, e.wrapped}
}

func sentinelFor(k Kind) error {
	switch k {
	case EndOfData:
		return EndOfDataErr
	case Io:
		return IoErr
	case Malformed:
		return MalformedErr
	case Invalid:
		return InvalidErr
	case Unsupported:
		return UnsupportedErr
	case Overflow:
		return OverflowErr
	default:
		return sentinel(k)
	}
}

// New creates an *Error of the given Kind with a formatted message and no
// positional context. Use At/In to attach context before returning.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: -1, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given Kind that also satisfies
// errors.Is/errors.As against cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := New(kind, format, args...)
	e.wrapped = cause

	return e
}

// At attaches a byte offset to e and returns e for chaining.
func (e *Error) At(pos int64) *Error {
	e.Pos = pos
	return e
}

// In attaches a record/field path to e and returns e for chaining.
func (e *Error) In(record, field string) *Error {
	e.Record = record
	e.Field = field

	return e
}

// AsPartial marks an EndOfData error as carrying a salvageable prefix,
// per spec.md's FMR truncation-salvage contract.
func (e *Error) AsPartial() *Error {
	e.Partial = true
	return e
}

// IsPartial reports whether err is an EndOfData error with Partial set.
func IsPartial(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == EndOfData && e.Partial
	}

	return false
}
