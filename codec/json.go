// Package codec decodes raw document bodies into constructor value maps
// and encodes both document projections, for JSON and YAML. It owns no
// wire format of its own: storage key names come from each field's
// StorageName.
package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"

	"github.com/rgan/tavi"
)

// DecodeJSON builds a document of def from a JSON object body. Numbers
// decode as json.Number so integer fields keep their precision through
// coercion. Diagnostics report any keys the definition does not
// declare.
func DecodeJSON(def *tavi.Definition, data []byte) (*tavi.Document, []tavi.Diagnostic, error) {
	values, err := decodeJSONMap(data)
	if err != nil {
		return nil, nil, err
	}
	doc, diags := tavi.New(def, values)
	return doc, diags, nil
}

// DecodeEmbeddedJSON is DecodeJSON for embedded document definitions.
func DecodeEmbeddedJSON(def *tavi.Definition, data []byte) (*tavi.EmbeddedDocument, []tavi.Diagnostic, error) {
	values, err := decodeJSONMap(data)
	if err != nil {
		return nil, nil, err
	}
	doc, diags := tavi.NewEmbedded(def, values)
	return doc, diags, nil
}

// EncodeJSON renders the attribute-keyed projection.
func EncodeJSON(d *tavi.Document) ([]byte, error) {
	return gojson.Marshal(d.FieldValues())
}

// EncodeStorageJSON renders the storage-keyed projection, with
// persist=false fields omitted.
func EncodeStorageJSON(d *tavi.Document) ([]byte, error) {
	return gojson.Marshal(d.MongoFieldValues())
}

func decodeJSONMap(data []byte) (map[string]any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
