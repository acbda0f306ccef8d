package nist

// Subfield is an ordered sequence of items, optionally flagged with a
// trailing record separator marking that another subfield follows it
// within the same field (spec.md §3 "NIST subfield").
type Subfield struct {
	Items []*Item
	HasRS bool
}

// NewSubfield builds a Subfield from the given items, in order.
func NewSubfield(items ...*Item) *Subfield {
	return &Subfield{Items: items}
}

// NumBytes sums the subfield's items plus its own trailing-separator
// byte, per spec.md §3's separator-accounting invariant.
func (sf *Subfield) NumBytes() int {
	n := 0
	for _, it := range sf.Items {
		n += it.NumBytes()
	}

	if sf.HasRS {
		n++
	}

	return n
}

// AppendItem adds it to the end of sf, marking the previous last item
// (if any) as followed by a unit separator, per spec.md §4.6
// "append_item(subfield, item): enable the predecessor item's trailing
// unit-separator once".
func (sf *Subfield) AppendItem(it *Item) {
	if n := len(sf.Items); n > 0 {
		sf.Items[n-1].HasUS = true
	}

	sf.Items = append(sf.Items, it)
}
