// Package fmr implements the finger-minutiae-record codec and
// conformance validator for the four binary dialects biomdi supports:
// ANSI/INCITS 378, ANSI/INCITS 378-2007, ISO/IEC 19794-2 "full", and the
// two ISO 19794-2 card profiles (normal-card, compact-card).
//
// The container hierarchy is, leaf to root: FMD (one minutia), FVMR (one
// finger view, owning a sequence of FMDs plus at most one FEDB), FMR
// (the top-level record, owning a sequence of FVMRs). Every level's
// Decode reads through a bytesio.Source and its Encode writes through a
// bytesio.Sink, so the same code parses a file stream or an in-memory
// buffer identically (spec.md §4.1).
//
// Grounded on original_source/biomdi/lib/{fmd,fmr,validate}.c and
// original_source/fmr/fvmr.c — the C sources this package's semantics
// were distilled from.
//
// # Basic usage
//
//	src := bytesio.NewBufferSource(wireBytes)
//	rec, err := fmr.Decode(src, format.ANSI)
//	if err != nil && !errs.IsPartial(err) {
//	    return err
//	}
//	result := fmr.NewValidator().Validate(rec)
//	if !result.OK() {
//	    // inspect result.Findings()
//	}
package fmr
