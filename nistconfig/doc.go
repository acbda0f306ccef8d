// Package nistconfig holds the in-memory "specification" tree a
// conformance run checks a decoded nist.File against: the standards,
// records, fields, and items a textual configuration file declares,
// plus the enumerated value lists and free-form options it carries
// (spec.md §3 "Configuration specification", §6 "Configuration file").
//
// Grounded directly on original_source/nbis/include/chkan2k.h's
// CAN_CONFIG/RECORD_SPEC/FIELD_SPEC/ITEM_SPEC/CAN_LIST/CAN_OPTION
// structures, which this package's Specification/RecordSpec/FieldSpec/
// ItemSpec types carry over field-for-field, trading the C header's
// hand-rolled dynamic arrays (num_X/alloc_X pairs) for Go slices and
// maps.
//
// A Specification points to a parent via Parent, matching chkan2k.h's
// CAN_CONFIG.parent; every lookup (LookupRecord, LookupField, ...)
// walks from the receiver up through Parent, so up to ten stacked
// configuration layers (spec.md §6 "Environment") can supplement a base
// standard without copying it (spec.md §3 "Specifications form a chain
// through a parent link").
package nistconfig
