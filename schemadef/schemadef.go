// Package schemadef loads document definitions from YAML bundles, so a
// document type can be declared in configuration instead of code:
//
//	documents:
//	  - name: Address
//	    fields:
//	      - {name: street, type: string}
//	      - {name: city, type: string}
//	  - name: Order
//	    identity: true
//	    fields:
//	      - {name: name, type: string, required: true}
//	      - {name: address, type: embedded, of: Address}
package schemadef

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rgan/tavi"
)

// File is the on-disk shape of a definition bundle.
type File struct {
	Documents []DocumentSpec `yaml:"documents"`
}

// DocumentSpec declares one document type.
type DocumentSpec struct {
	Name       string      `yaml:"name"`
	Collection string      `yaml:"collection,omitempty"`
	Identity   bool        `yaml:"identity,omitempty"`
	Timestamps bool        `yaml:"timestamps,omitempty"`
	Fields     []FieldSpec `yaml:"fields"`
}

// FieldSpec declares one field of a document type. Type is one of
// string, int, float, bool, time, uuid, embedded, or list; embedded and
// list name their target document via Of.
type FieldSpec struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	StoredAs string   `yaml:"stored_as,omitempty"`
	Required bool     `yaml:"required,omitempty"`
	Choices  []string `yaml:"choices,omitempty"`
	Persist  *bool    `yaml:"persist,omitempty"`
	Of       string   `yaml:"of,omitempty"`
}

// Load parses a YAML bundle into definitions keyed by document name.
// Embedded and list targets may reference any earlier document in the
// bundle; targets must be declared before use.
func Load(data []byte) (map[string]*tavi.Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	defs := make(map[string]*tavi.Definition, len(f.Documents))
	for _, spec := range f.Documents {
		if spec.Name == "" {
			return nil, fmt.Errorf("schemadef: document without a name")
		}
		if _, dup := defs[spec.Name]; dup {
			return nil, fmt.Errorf("schemadef: document %q declared twice", spec.Name)
		}
		def, err := buildDocument(spec, defs)
		if err != nil {
			return nil, err
		}
		defs[spec.Name] = def
	}
	return defs, nil
}

func buildDocument(spec DocumentSpec, defs map[string]*tavi.Definition) (*tavi.Definition, error) {
	b := tavi.Define(spec.Name)
	if spec.Collection != "" {
		b = b.Collection(spec.Collection)
	}
	if spec.Identity {
		b = b.Identity()
	}
	if spec.Timestamps {
		b = b.Timestamps()
	}
	for _, fs := range spec.Fields {
		f, err := buildField(fs, defs)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %s: %w", spec.Name, err)
		}
		b = b.Field(f)
	}
	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("schemadef: %w", err)
	}
	return def, nil
}

func buildField(spec FieldSpec, defs map[string]*tavi.Definition) (*tavi.Field, error) {
	var f *tavi.Field
	switch spec.Type {
	case "string":
		f = tavi.String(spec.Name)
	case "int":
		f = tavi.Int(spec.Name)
	case "float":
		f = tavi.Float(spec.Name)
	case "bool":
		f = tavi.Bool(spec.Name)
	case "time":
		f = tavi.Time(spec.Name)
	case "uuid":
		f = tavi.UUID(spec.Name)
	case "embedded":
		target := defs[spec.Of]
		if target == nil {
			return nil, fmt.Errorf("field %s: unknown document %q", spec.Name, spec.Of)
		}
		f = tavi.Embedded(spec.Name, target)
	case "list":
		if spec.Of == "" {
			f = tavi.List(spec.Name, nil)
			break
		}
		target := defs[spec.Of]
		if target == nil {
			return nil, fmt.Errorf("field %s: unknown document %q", spec.Name, spec.Of)
		}
		f = tavi.List(spec.Name, target)
	default:
		return nil, fmt.Errorf("field %s: unknown type %q", spec.Name, spec.Type)
	}
	if spec.StoredAs != "" {
		f = f.StoredAs(spec.StoredAs)
	}
	if spec.Required {
		f = f.Required()
	}
	if len(spec.Choices) > 0 {
		cs := make([]any, len(spec.Choices))
		for i, c := range spec.Choices {
			cs[i] = c
		}
		f = f.Choices(cs...)
	}
	if spec.Persist != nil {
		f = f.Persist(*spec.Persist)
	}
	return f, nil
}
