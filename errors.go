package tavi

import (
	"errors"
	"strings"
)

// Programmer errors surfaced by container operations. Validation
// outcomes never take this form; they accumulate in an ErrorCollection
// and are discovered through Valid()/Errors().
var (
	// ErrNilEmbedded is returned when a nil element is handed to an
	// EmbeddedList operation that requires a document.
	ErrNilEmbedded = errors.New("tavi: embedded list only accepts non-nil *EmbeddedDocument values")
	// ErrNilOwner is returned when a nil owner is assigned to a nested
	// container; owners must expose the document capability set.
	ErrNilOwner = errors.New("tavi: owner must expose the document capability set")
	// ErrDefinitionMismatch is returned when an embedded document built
	// from one definition is placed into a slot typed for another.
	ErrDefinitionMismatch = errors.New("tavi: embedded document does not match the slot definition")
	// ErrIndexRange is returned by indexed EmbeddedList operations when
	// the index falls outside the sequence.
	ErrIndexRange = errors.New("tavi: index out of range")
)

// ErrorCollection accumulates human-readable validation messages keyed
// by an error namespace, usually a field storage name. Keys are
// independent: clearing one never touches another. Iteration follows
// key first-insertion order, then message insertion order within a key.
type ErrorCollection struct {
	order []string
	byKey map[string][]string
}

// NewErrorCollection returns an empty collection.
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{byKey: map[string][]string{}}
}

// Add appends message under key, creating the key when absent.
func (ec *ErrorCollection) Add(key, message string) {
	if _, ok := ec.byKey[key]; !ok {
		ec.order = append(ec.order, key)
	}
	ec.byKey[key] = append(ec.byKey[key], message)
}

// Clear removes all messages at key. Unknown keys are a no-op.
func (ec *ErrorCollection) Clear(key string) {
	if _, ok := ec.byKey[key]; !ok {
		return
	}
	delete(ec.byKey, key)
	for i, k := range ec.order {
		if k == key {
			ec.order = append(ec.order[:i], ec.order[i+1:]...)
			break
		}
	}
}

// ClearAll drops every key.
func (ec *ErrorCollection) ClearAll() {
	ec.order = ec.order[:0]
	for k := range ec.byKey {
		delete(ec.byKey, k)
	}
}

// Count is the total message count across all keys.
func (ec *ErrorCollection) Count() int {
	n := 0
	for _, msgs := range ec.byKey {
		n += len(msgs)
	}
	return n
}

// Messages returns the messages recorded under key, nil when absent.
func (ec *ErrorCollection) Messages(key string) []string {
	return ec.byKey[key]
}

// FullMessages renders every message as "<Title(key)> <message>".
func (ec *ErrorCollection) FullMessages() []string {
	out := make([]string, 0, ec.Count())
	for _, key := range ec.order {
		title := Titleize(key)
		for _, msg := range ec.byKey[key] {
			out = append(out, title+" "+msg)
		}
	}
	return out
}

// Titleize turns a storage name into its human form: underscores become
// spaces and each word is capitalized ("my_status" -> "My Status").
func Titleize(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
