package codec

import (
	"gopkg.in/yaml.v3"

	"github.com/rgan/tavi"
)

// DecodeYAML builds a document of def from a YAML mapping body. Nested
// mappings construct embedded documents; sequences of mappings populate
// embedded lists through the validating insert path.
func DecodeYAML(def *tavi.Definition, data []byte) (*tavi.Document, []tavi.Diagnostic, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}
	doc, diags := tavi.New(def, m)
	return doc, diags, nil
}

// EncodeYAML renders the attribute-keyed projection.
func EncodeYAML(d *tavi.Document) ([]byte, error) {
	return yaml.Marshal(d.FieldValues())
}

// EncodeStorageYAML renders the storage-keyed projection, with
// persist=false fields omitted.
func EncodeStorageYAML(d *tavi.Document) ([]byte, error) {
	return yaml.Marshal(d.MongoFieldValues())
}
