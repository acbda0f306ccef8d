package nist

// Item is the leaf of the record hierarchy: a byte sequence and its
// length (spec.md §3 "NIST item"). An item may be flagged with a
// trailing unit separator; NumBytes includes that separator byte when
// set, per the separator-accounting invariant.
type Item struct {
	Value []byte
	HasUS bool
}

// NewItem copies value into a new Item with no trailing separator.
func NewItem(value []byte) *Item {
	return &Item{Value: append([]byte(nil), value...)}
}

// NewTextItem is a convenience constructor for ASCII-valued items, the
// common case for tagged-record fields.
func NewTextItem(s string) *Item {
	return NewItem([]byte(s))
}

// NumBytes is the item's contribution to its enclosing subfield's size,
// per spec.md §3's separator-accounting invariant.
func (it *Item) NumBytes() int {
	n := len(it.Value)
	if it.HasUS {
		n++
	}

	return n
}

// SetValue replaces the item's value in place; callers use
// model.go's SubstituteItem rather than this directly so that enclosing
// byte totals stay consistent.
func (it *Item) SetValue(v []byte) {
	it.Value = append(it.Value[:0], v...)
}

// String renders the item's value as text, for tagged ASCII items.
func (it *Item) String() string { return string(it.Value) }
