// Package tavi provides:
//
//   - Declarative document definitions: an ordered field registry with
//     logical and storage names, required/choices rules, and a
//     per-definition validation hook
//   - On-demand validation into a keyed ErrorCollection; validation
//     results are data, not Go errors, and are inspected via
//     Valid()/Errors()
//   - Dirty-field tracking for selective persistence
//   - Two projections of document state: attribute-keyed FieldValues
//     and storage-keyed MongoFieldValues
//   - EmbeddedDocument and EmbeddedList containers with insert-time
//     validation and owner back-references
//
// Design policy:
//   - Keep the modeling core in the root package; codecs live under
//     codec/, YAML definition bundles under schemadef/, and the CLI
//     under cmd/tavi.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	def := tavi.Define("Order").
//		Field(tavi.String("name").Required()).
//		Field(tavi.Embedded("address", addressDef)).
//		Field(tavi.List("order_lines", lineDef)).
//		MustBuild()
//
//	doc, diags := tavi.New(def, map[string]any{"name": "John"})
//	if !doc.Valid() {
//		for _, msg := range doc.Errors().FullMessages() { ... }
//	}
package tavi
