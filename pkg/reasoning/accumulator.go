package reasoning

type accumulatorKey struct {
	id    string
	index int
	typ   Type
}

// Accumulator merges reasoning detail fragments streamed across many chunks
// into complete items. Fragments are merged when they share id, index and
// type; a fragment without an id continues the latest item at its index and
// type. Encrypted data is never joined: each blob is a complete record and
// the first one seen for an item wins. An Accumulator is owned by a single
// stream.
type Accumulator struct {
	order []*Item
	items map[accumulatorKey]*Item
}

// Add merges fragments into the accumulated items.
func (a *Accumulator) Add(fragments ...Item) {
	if a.items == nil {
		a.items = make(map[accumulatorKey]*Item)
	}

	for _, frag := range fragments {
		if !frag.Valid() {
			continue
		}

		cur := a.find(frag)
		if cur == nil {
			item := frag
			a.items[accumulatorKey{id: frag.ID, index: frag.Index, typ: frag.Type}] = &item
			a.order = append(a.order, &item)
			continue
		}

		if cur.ID == "" && frag.ID != "" {
			delete(a.items, accumulatorKey{index: cur.Index, typ: cur.Type})
			cur.ID = frag.ID
			a.items[accumulatorKey{id: cur.ID, index: cur.Index, typ: cur.Type}] = cur
		}
		if cur.Format == "" || cur.Format == FormatUnknown {
			cur.Format = frag.Format
		}
		cur.Text += frag.Text
		cur.Summary += frag.Summary
		if cur.Data == "" {
			cur.Data = frag.Data
		}
		if frag.Signature != "" {
			cur.Signature = frag.Signature
		}
	}
}

// find returns the item frag continues, or nil when frag starts a new one.
func (a *Accumulator) find(frag Item) *Item {
	if cur, ok := a.items[accumulatorKey{id: frag.ID, index: frag.Index, typ: frag.Type}]; ok {
		return cur
	}

	for i := len(a.order) - 1; i >= 0; i-- {
		cur := a.order[i]
		if cur.Index != frag.Index || cur.Type != frag.Type {
			continue
		}
		// An anonymous fragment continues whatever came last at its slot;
		// an identified one only claims an item that has no id yet.
		if frag.ID == "" || cur.ID == "" {
			return cur
		}
		return nil
	}
	return nil
}

// Items returns the accumulated items in order of first appearance.
func (a *Accumulator) Items() []Item {
	if len(a.order) == 0 {
		return nil
	}
	out := make([]Item, 0, len(a.order))
	for _, item := range a.order {
		out = append(out, *item)
	}
	return out
}

// Len returns the number of distinct accumulated items.
func (a *Accumulator) Len() int {
	return len(a.order)
}
