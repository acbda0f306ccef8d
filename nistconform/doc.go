// Package nistconform checks a decoded nist.File against a
// nistconfig.Specification: every record type must be declared, every
// required field must be present, every subfield must fall within its
// declared occurrence and size bounds, and every item must satisfy the
// value domain its ItemSpec names (spec.md §4.9 "Conformance checking").
//
// Grounded on original_source/nbis/include/chkan2k.h's CAN_CONTEXT
// accumulator and its LOGL/LOGTP enums, which this package's Result and
// format.Severity/format.Category carry over directly: a single bad
// field never aborts the walk (the "accumulate and continue" pattern
// validate.c/an2k uses throughout), it only adds a Finding and moves on.
package nistconform
