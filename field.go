package tavi

import "reflect"

// FieldType is the coercion contract a field's declared type satisfies.
// Coerce turns a raw constructor or assignment value into the stored
// representation, or reports why it cannot; the error text is recorded
// against the field's storage name on the next validity check rather
// than failing the write.
type FieldType interface {
	Name() string
	Coerce(raw any) (any, error)
}

// Field describes one declared attribute of a document definition: the
// logical (attribute-facing) name, the storage (persisted) name, and
// the rules evaluated on every validity check. Fields are metadata
// shared by all instances of a definition; they hold no per-instance
// state and are immutable once the definition is built.
type Field struct {
	name        string
	storageName string
	typ         FieldType
	required    bool
	choices     []any
	persist     bool
	structural  bool
}

func newField(name string, typ FieldType) *Field {
	return &Field{name: name, storageName: name, typ: typ, persist: true}
}

// Name returns the logical name.
func (f *Field) Name() string { return f.name }

// StorageName returns the key the value is persisted under.
func (f *Field) StorageName() string { return f.storageName }

// Type returns the field's declared type.
func (f *Field) Type() FieldType { return f.typ }

// StoredAs sets a storage name distinct from the logical name.
func (f *Field) StoredAs(name string) *Field {
	f.storageName = name
	return f
}

// Required marks the field as mandatory: an empty value fails
// validation with "<Title> is required".
func (f *Field) Required() *Field {
	f.required = true
	return f
}

// Choices restricts the value to the given set. An unset value is not
// a member, so declaring choices forces a selection even without
// Required; only a required-rule failure takes precedence.
func (f *Field) Choices(values ...any) *Field {
	f.choices = values
	return f
}

// Persist controls whether the field appears in the storage projection.
// Defaults to true.
func (f *Field) Persist(v bool) *Field {
	f.persist = v
	return f
}

// markStructural hides the field from Fields() and the attribute
// projection while keeping it in the storage projection. Used for
// bookkeeping slots like the identity field.
func (f *Field) markStructural() *Field {
	f.structural = true
	return f
}

// validate evaluates the field rules against the document's current
// state, writing into errs under the storage name: required first,
// then choice membership, then any pending coercion failure.
func (f *Field) validate(doc *Document, errs *ErrorCollection) {
	value := doc.values[f.name]
	switch {
	case f.required && isEmpty(value):
		errs.Add(f.storageName, messageFor(codeRequired))
	case len(f.choices) > 0 && !containsValue(f.choices, value):
		errs.Add(f.storageName, messageFor(codeChoices))
	}
	if msg, ok := doc.coerceFailures[f.name]; ok {
		errs.Add(f.storageName, msg)
	}
}

// isEmpty reports whether a stored value counts as unset for the
// required rule: nil, the empty string, or a zero-length sequence.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case *EmbeddedList:
		return t.Len() == 0
	}
	return false
}

func containsValue(set []any, v any) bool {
	for _, c := range set {
		if reflect.DeepEqual(c, v) {
			return true
		}
	}
	return false
}
