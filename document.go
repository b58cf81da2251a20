package tavi

import (
	"fmt"
	"sort"
)

// Definition is the field registry for one document type: ordered field
// metadata, name indexes, and the document-level validation hook. It is
// built once via Define and shared by every instance of the type.
type Definition struct {
	name       string
	collection string
	fields     []*Field
	byName     map[string]*Field
	hook       func(*Document, *ErrorCollection)
	identity   bool
	timestamps bool
}

// Name returns the document type name.
func (def *Definition) Name() string { return def.name }

// Field returns the descriptor for a logical name, nil when undeclared.
func (def *Definition) Field(name string) *Field { return def.byName[name] }

// Builder assembles a Definition. Name conflicts are reported at Build.
type Builder struct {
	def *Definition
}

// Define starts a definition builder for a document type.
func Define(name string) *Builder {
	return &Builder{def: &Definition{name: name}}
}

// Field appends a declared field in declaration order.
func (b *Builder) Field(f *Field) *Builder {
	b.def.fields = append(b.def.fields, f)
	return b
}

// Validate installs the document-level hook, run before the field
// rules on every validity check. The hook may add or clear arbitrary
// keys on the collection it receives; keys it owns are never
// auto-cleared, so it must clear them itself to avoid accumulating
// duplicates.
func (b *Builder) Validate(fn func(*Document, *ErrorCollection)) *Builder {
	b.def.hook = fn
	return b
}

// Build validates the registry and returns the definition. Logical and
// storage names must each be unique within the definition.
func (b *Builder) Build() (*Definition, error) {
	byName := make(map[string]*Field, len(b.def.fields))
	byStorage := make(map[string]struct{}, len(b.def.fields))
	for _, f := range b.def.fields {
		if _, dup := byName[f.name]; dup {
			return nil, fmt.Errorf("tavi: %s declares field %q twice", b.def.name, f.name)
		}
		byName[f.name] = f
		if _, dup := byStorage[f.storageName]; dup {
			return nil, fmt.Errorf("tavi: %s reuses storage name %q", b.def.name, f.storageName)
		}
		byStorage[f.storageName] = struct{}{}
	}
	b.def.byName = byName
	return b.def, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Document is the attribute container for one entity: the current
// values of every declared field, the dirty-field set, and an error
// collection revalidated on demand. Instances are not safe for
// concurrent use; each document belongs to one logical owner at a time.
type Document struct {
	def            *Definition
	self           Owner
	values         map[string]any
	dirty          map[string]struct{}
	errs           *ErrorCollection
	coerceFailures map[string]string
	validating     bool
}

// New constructs a document from constructor values. Only declared
// field names are applied; unrecognized keys are dropped and reported
// as diagnostics while construction proceeds. Values applied here do
// not mark fields dirty, so documents decoded from storage start clean.
func New(def *Definition, values map[string]any) (*Document, []Diagnostic) {
	d := &Document{}
	diags := d.init(def, values, d)
	return d, diags
}

func (d *Document) init(def *Definition, values map[string]any, self Owner) []Diagnostic {
	d.def = def
	d.self = self
	d.values = make(map[string]any, len(def.fields))
	d.dirty = map[string]struct{}{}
	d.errs = NewErrorCollection()
	d.coerceFailures = map[string]string{}
	for _, f := range def.fields {
		d.values[f.name] = d.initialValue(f)
	}
	for _, f := range def.fields {
		if raw, ok := values[f.name]; ok {
			d.apply(f, raw)
		}
	}
	var diags []Diagnostic
	if len(values) > 0 {
		var unknown []string
		for key := range values {
			if _, ok := def.byName[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			diags = append(diags, Diagnostic{Document: def.name, Key: key, Value: values[key]})
		}
	}
	d.fillIdentity()
	return diags
}

// initialValue produces the type-appropriate empty value for a slot:
// embedded slots get a fresh empty instance, list slots an empty
// container bound to this document, everything else nil.
func (d *Document) initialValue(f *Field) any {
	switch t := f.typ.(type) {
	case embeddedType:
		doc, _ := NewEmbedded(t.def, nil)
		doc.owner = d.self
		return doc
	case listType:
		if t.def != nil {
			return newEmbeddedList(f.name, d.self, t.def)
		}
		return []any{}
	}
	return nil
}

// apply is the single write path: it coerces raw into the slot and, on
// failure, stashes the coercion message for the next validity check
// instead of failing the call.
func (d *Document) apply(f *Field, raw any) {
	delete(d.coerceFailures, f.name)
	switch t := f.typ.(type) {
	case embeddedType:
		d.applyEmbedded(f, t, raw)
	case listType:
		if t.def != nil {
			d.applyEmbeddedList(f, t, raw)
			return
		}
		d.applyPlain(f, raw)
	default:
		d.applyPlain(f, raw)
	}
}

func (d *Document) applyPlain(f *Field, raw any) {
	v, err := f.typ.Coerce(raw)
	if err != nil {
		d.coerceFailures[f.name] = err.Error()
		return
	}
	d.values[f.name] = v
}

func (d *Document) applyEmbedded(f *Field, t embeddedType, raw any) {
	if raw == nil {
		d.values[f.name] = d.initialValue(f)
		return
	}
	v, err := f.typ.Coerce(raw)
	if err != nil {
		if err == ErrDefinitionMismatch {
			d.coerceFailures[f.name] = messageFor(codeEmbedded)
			return
		}
		d.coerceFailures[f.name] = err.Error()
		return
	}
	doc := v.(*EmbeddedDocument)
	doc.owner = d.self
	d.values[f.name] = doc
}

// applyEmbeddedList adopts or rebuilds the validating container. Raw
// element maps are constructed against the element definition and go
// through the validating insert path, so invalid elements are dropped
// with their messages cascaded onto this document.
func (d *Document) applyEmbeddedList(f *Field, t listType, raw any) {
	switch v := raw.(type) {
	case nil:
		d.values[f.name] = newEmbeddedList(f.name, d.self, t.def)
		return
	case *EmbeddedList:
		if v.def != t.def {
			d.coerceFailures[f.name] = messageFor(codeList)
			return
		}
		v.owner = d.self
		d.values[f.name] = v
		return
	}
	elems, ok := anySlice(raw)
	if !ok {
		d.coerceFailures[f.name] = messageFor(codeList)
		return
	}
	list := newEmbeddedList(f.name, d.self, t.def)
	d.values[f.name] = list
	for _, el := range elems {
		switch ev := el.(type) {
		case *EmbeddedDocument:
			_ = list.Append(ev)
		case map[string]any:
			nested, _ := NewEmbedded(t.def, ev)
			_ = list.Append(nested)
		default:
			d.coerceFailures[f.name] = messageFor(codeList)
			return
		}
	}
}

// Set assigns raw to the named field through its coercion rule and adds
// the logical name to the dirty set whether or not the value changed.
// Unknown names fail immediately; a value the type cannot coerce does
// not. The slot keeps its previous value and the failure is reported on
// every validity check until the next write to that field, so a
// rejected write leaves the document invalid even though the stored
// state still projects cleanly.
func (d *Document) Set(name string, raw any) error {
	f := d.def.byName[name]
	if f == nil {
		return fmt.Errorf("tavi: %s has no field %q", d.def.name, name)
	}
	d.apply(f, raw)
	d.dirty[name] = struct{}{}
	return nil
}

// Get returns the current value of the named field, nil when the name
// is unknown or the field was never set.
func (d *Document) Get(name string) any { return d.values[name] }

// Embedded returns the nested document stored at name, nil when the
// slot holds something else.
func (d *Document) Embedded(name string) *EmbeddedDocument {
	v, _ := d.values[name].(*EmbeddedDocument)
	return v
}

// List returns the embedded list stored at name, nil when the slot
// holds something else.
func (d *Document) List(name string) *EmbeddedList {
	v, _ := d.values[name].(*EmbeddedList)
	return v
}

// Definition returns the registry this document was built from.
func (d *Document) Definition() *Definition { return d.def }

// Valid reports whether a full validation pass leaves the collection
// empty.
func (d *Document) Valid() bool {
	d.revalidate()
	return d.errs.Count() == 0
}

// Errors revalidates and returns the document's error collection.
func (d *Document) Errors() *ErrorCollection {
	d.revalidate()
	return d.errs
}

// revalidate reruns validation from a clean slate: only the field
// storage keys are cleared, the document hook runs, then each field
// rule runs against the current value. Hook messages therefore render
// ahead of field messages in FullMessages. Keys the hook owns survive
// between runs; clearing them is the hook's responsibility. The guard
// lets a hook call Valid or Errors on its own document without
// recursing.
func (d *Document) revalidate() {
	if d.validating {
		return
	}
	d.validating = true
	defer func() { d.validating = false }()

	for _, f := range d.def.fields {
		d.errs.Clear(f.storageName)
	}
	if d.def.hook != nil {
		d.def.hook(d, d.errs)
	}
	for _, f := range d.def.fields {
		f.validate(d, d.errs)
	}
}

// Fields returns the declared logical names in declaration order,
// skipping structural fields.
func (d *Document) Fields() []string {
	out := make([]string, 0, len(d.def.fields))
	for _, f := range d.def.fields {
		if f.structural {
			continue
		}
		out = append(out, f.name)
	}
	return out
}

// FieldValues projects current values keyed by logical name, expanding
// embedded documents into nested maps and embedded lists into slices
// of maps.
func (d *Document) FieldValues() map[string]any {
	out := make(map[string]any, len(d.def.fields))
	for _, f := range d.def.fields {
		if f.structural {
			continue
		}
		out[f.name] = expandValue(d.values[f.name], false)
	}
	return out
}

// MongoFieldValues projects current values keyed by storage name for
// the persistence layer, omitting persist=false fields, with the same
// recursive expansion as FieldValues.
func (d *Document) MongoFieldValues() map[string]any {
	out := make(map[string]any, len(d.def.fields))
	for _, f := range d.def.fields {
		if !f.persist {
			continue
		}
		out[f.storageName] = expandValue(d.values[f.name], true)
	}
	return out
}

func expandValue(v any, storage bool) any {
	switch t := v.(type) {
	case *EmbeddedDocument:
		if storage {
			return t.MongoFieldValues()
		}
		return t.FieldValues()
	case *EmbeddedList:
		out := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			out[i] = expandValue(t.At(i), storage)
		}
		return out
	}
	return v
}

// ChangedFields returns the live set of logical names assigned since
// construction. Validation never resets it; the persistence layer calls
// ResetChanges after a successful write.
func (d *Document) ChangedFields() map[string]struct{} { return d.dirty }

// ResetChanges empties the dirty set.
func (d *Document) ResetChanges() {
	for k := range d.dirty {
		delete(d.dirty, k)
	}
}
