package tavi

import "reflect"

// Owner is the capability set a value must expose to own nested
// structures: the error collection nested containers cascade into and
// the declared field names. Both *Document and *EmbeddedDocument
// satisfy it.
type Owner interface {
	Errors() *ErrorCollection
	Fields() []string
}

// Embedded declares a field holding a nested document of the given
// definition. The slot is initialized with an empty instance at
// construction so dotted-style assignment works before an explicit set.
func Embedded(name string, def *Definition) *Field {
	return newField(name, embeddedType{def: def})
}

// List declares an ordered-sequence field. With a non-nil def the value
// is an EmbeddedList restricted to documents of that definition; with a
// nil def it is a plain []any with no element validation.
func List(name string, def *Definition) *Field {
	return newField(name, listType{def: def})
}

// EmbeddedDocument is a document that only lives nested inside another
// document or an EmbeddedList. It carries a back-reference to whatever
// owns it; reassigning the document to a new parent overwrites the
// reference, so an instance must not be shared between two live
// parents.
type EmbeddedDocument struct {
	Document
	owner Owner
}

// NewEmbedded constructs an embedded document from constructor values,
// with the same unknown-key diagnostics as New.
func NewEmbedded(def *Definition, values map[string]any) (*EmbeddedDocument, []Diagnostic) {
	doc := &EmbeddedDocument{}
	diags := doc.init(def, values, doc)
	return doc, diags
}

// Owner returns the owning document, nil when the instance is not yet
// attached to a parent.
func (e *EmbeddedDocument) Owner() Owner { return e.owner }

// SetOwner records the owning document. A nil owner is rejected.
func (e *EmbeddedDocument) SetOwner(o Owner) error {
	if o == nil {
		return ErrNilOwner
	}
	e.owner = o
	return nil
}

type embeddedType struct{ def *Definition }

func (t embeddedType) Name() string { return "embedded:" + t.def.name }

// Coerce accepts an existing *EmbeddedDocument of the matching
// definition or a raw map, which constructs a fresh instance. Unknown
// keys inside a raw map are dropped without diagnostics here; decode
// through New to observe them.
func (t embeddedType) Coerce(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *EmbeddedDocument:
		if v == nil {
			return nil, nil
		}
		if v.def != t.def {
			return nil, ErrDefinitionMismatch
		}
		return v, nil
	case map[string]any:
		doc, _ := NewEmbedded(t.def, v)
		return doc, nil
	}
	return nil, coerceFailure(codeEmbedded)
}

type listType struct{ def *Definition }

func (t listType) Name() string {
	if t.def == nil {
		return "list"
	}
	return "list:" + t.def.name
}

// Coerce handles the plain (no element definition) mode only; slots
// with an element definition are materialized as EmbeddedList by the
// owning document, which the list needs a back-reference to.
func (t listType) Coerce(raw any) (any, error) {
	if raw == nil {
		return []any{}, nil
	}
	elems, ok := anySlice(raw)
	if !ok {
		return nil, coerceFailure(codeList)
	}
	return elems, nil
}

// anySlice normalizes any slice kind into []any.
func anySlice(raw any) ([]any, bool) {
	if v, ok := raw.([]any); ok {
		out := make([]any, len(v))
		copy(out, v)
		return out, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
