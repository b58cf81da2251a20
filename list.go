package tavi

import "reflect"

// EmbeddedList is the ordered container behind a list field whose
// elements are embedded documents of a single definition. Elements are
// validated as they are inserted: an invalid document is dropped and
// every full message it carries cascades into the owner's collection
// under "<field> Error:". Sorting is intentionally unsupported.
type EmbeddedList struct {
	name  string
	def   *Definition
	owner Owner
	items []*EmbeddedDocument
}

func newEmbeddedList(name string, owner Owner, def *Definition) *EmbeddedList {
	return &EmbeddedList{name: name, owner: owner, def: def}
}

// Name returns the logical field name the list represents.
func (l *EmbeddedList) Name() string { return l.name }

// Owner returns the document holding this list.
func (l *EmbeddedList) Owner() Owner { return l.owner }

// SetOwner rebinds the list to a new owning document. A nil owner is
// rejected.
func (l *EmbeddedList) SetOwner(o Owner) error {
	if o == nil {
		return ErrNilOwner
	}
	l.owner = o
	return nil
}

// Len returns the element count.
func (l *EmbeddedList) Len() int { return len(l.items) }

// At returns the element at index i. It panics on an out-of-range
// index, like a slice access.
func (l *EmbeddedList) At(i int) *EmbeddedDocument { return l.items[i] }

// Set replaces the element at index i without revalidating it; only
// Insert and Append run the validity gate.
func (l *EmbeddedList) Set(i int, v *EmbeddedDocument) error {
	if err := l.check(v); err != nil {
		return err
	}
	if i < 0 || i >= len(l.items) {
		return ErrIndexRange
	}
	l.items[i] = v
	return nil
}

// Delete removes the element at index i.
func (l *EmbeddedList) Delete(i int) error {
	if i < 0 || i >= len(l.items) {
		return ErrIndexRange
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// Append inserts v at the end of the sequence.
func (l *EmbeddedList) Append(v *EmbeddedDocument) error {
	return l.Insert(len(l.items), v)
}

// Insert places v at index i when v validates as its own document,
// taking ownership via the list's owner. An invalid v is not inserted:
// each of its full messages is added to the owner's errors under
// "<name> Error:", and the call still returns nil — rejection is
// validation data, not a call failure.
func (l *EmbeddedList) Insert(i int, v *EmbeddedDocument) error {
	if err := l.check(v); err != nil {
		return err
	}
	if i < 0 || i > len(l.items) {
		return ErrIndexRange
	}
	if !v.Valid() {
		key := l.name + " Error:"
		dst := l.owner.Errors()
		for _, msg := range v.Errors().FullMessages() {
			dst.Add(key, msg)
		}
		return nil
	}
	v.owner = l.owner
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	return nil
}

// Find returns the first element equal to item, nil when absent.
// Equality means the same instance or matching field values; the scan
// is linear and meant for existence checks, not indexed lookup.
func (l *EmbeddedList) Find(item *EmbeddedDocument) *EmbeddedDocument {
	if item == nil {
		return nil
	}
	want := item.FieldValues()
	for _, el := range l.items {
		if el == item || reflect.DeepEqual(el.FieldValues(), want) {
			return el
		}
	}
	return nil
}

// Equal compares the list against a plain ordered sequence by element
// field values.
func (l *EmbeddedList) Equal(other []*EmbeddedDocument) bool {
	if len(other) != len(l.items) {
		return false
	}
	for i, el := range l.items {
		o := other[i]
		if el == o {
			continue
		}
		if el == nil || o == nil {
			return false
		}
		if !reflect.DeepEqual(el.FieldValues(), o.FieldValues()) {
			return false
		}
	}
	return true
}

// Items returns the elements as a fresh slice for iteration.
func (l *EmbeddedList) Items() []*EmbeddedDocument {
	out := make([]*EmbeddedDocument, len(l.items))
	copy(out, l.items)
	return out
}

func (l *EmbeddedList) check(v *EmbeddedDocument) error {
	if v == nil {
		return ErrNilEmbedded
	}
	if l.def != nil && v.def != l.def {
		return ErrDefinitionMismatch
	}
	return nil
}
