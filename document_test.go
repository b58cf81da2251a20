package tavi_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rgan/tavi"
)

func sampleDefinition(t *testing.T) *tavi.Definition {
	t.Helper()
	return tavi.Define("Sample").
		Field(tavi.String("name").Required()).
		Field(tavi.String("password").Persist(false)).
		Field(tavi.String("payment_type")).
		Field(tavi.Time("created_at")).
		Field(tavi.String("status").StoredAs("my_status").Choices("Good", "Bad")).
		MustBuild()
}

func TestDocument_NoFields(t *testing.T) {
	def := tavi.Define("Empty").MustBuild()
	doc, diags := tavi.New(def, nil)

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := doc.Fields(); len(got) != 0 {
		t.Fatalf("expected no fields, got %v", got)
	}
	if !doc.Valid() {
		t.Fatalf("expected an empty document to be valid")
	}
	if doc.Errors().Count() != 0 {
		t.Fatalf("expected no errors, got %v", doc.Errors().FullMessages())
	}
	if got := doc.FieldValues(); len(got) != 0 {
		t.Fatalf("expected empty field values, got %v", got)
	}
}

func TestDocument_Fields(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), nil)
	want := []string{"name", "password", "payment_type", "created_at", "status"}
	if got := doc.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("fields mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDocument_FieldValues(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), map[string]any{"name": "John"})
	want := map[string]any{
		"name":         "John",
		"password":     nil,
		"payment_type": nil,
		"created_at":   nil,
		"status":       nil,
	}
	if got := doc.FieldValues(); !reflect.DeepEqual(got, want) {
		t.Fatalf("field values mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDocument_MongoFieldValues(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), map[string]any{
		"name":     "John",
		"status":   "Good",
		"password": "secret",
	})
	want := map[string]any{
		"name":         "John",
		"payment_type": nil,
		"created_at":   nil,
		"my_status":    "Good",
	}
	if got := doc.MongoFieldValues(); !reflect.DeepEqual(got, want) {
		t.Fatalf("storage projection mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDocument_RequiredField(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), map[string]any{"status": "Good"})
	if doc.Valid() {
		t.Fatalf("expected document without name to be invalid")
	}
	want := []string{"Name is required"}
	if got := doc.Errors().FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %v\nwant %v", got, want)
	}

	if err := doc.Set("name", "test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !doc.Valid() {
		t.Fatalf("expected document to be valid, errors: %v", doc.Errors().FullMessages())
	}
}

func TestDocument_ChoicesApplyToEmptyValues(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), map[string]any{"name": "John"})
	if doc.Valid() {
		t.Fatalf("an unset choices field is not a member of the list")
	}
	want := []string{"My Status value must be in list"}
	if got := doc.Errors().FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %v\nwant %v", got, want)
	}

	if err := doc.Set("status", "Not a valid status"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if doc.Valid() {
		t.Fatalf("expected out-of-list value to be invalid")
	}
	if got := doc.Errors().FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %v\nwant %v", got, want)
	}

	if err := doc.Set("status", "Bad"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !doc.Valid() {
		t.Fatalf("expected in-list value to clear the error: %v", doc.Errors().FullMessages())
	}
}

func TestDocument_ValidIsIdempotent(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), nil)
	first := doc.Valid()
	count := doc.Errors().Count()
	if doc.Valid() != first {
		t.Fatalf("Valid changed without mutation")
	}
	if doc.Errors().Count() != count {
		t.Fatalf("error count changed without mutation: %d -> %d", count, doc.Errors().Count())
	}
}

func hookedDefinition(t *testing.T) *tavi.Definition {
	t.Helper()
	return tavi.Define("Sample").
		Field(tavi.String("name").Required()).
		Field(tavi.String("payment_type")).
		Field(tavi.Time("created_at")).
		Field(tavi.String("status").StoredAs("my_status").Choices("Good", "Bad")).
		Validate(func(d *tavi.Document, errs *tavi.ErrorCollection) {
			errs.Clear("status")
			pt, _ := d.Get("payment_type").(string)
			st, _ := d.Get("status").(string)
			if pt != "" && st == "" {
				errs.Add("status", "is required if payment type is set")
			}
		}).
		MustBuild()
}

func TestDocument_HookAddsModelError(t *testing.T) {
	doc, _ := tavi.New(hookedDefinition(t), map[string]any{
		"name":         "John",
		"payment_type": "Debit",
	})
	if doc.Valid() {
		t.Fatalf("expected hook to report missing status")
	}
	want := []string{
		"Status is required if payment type is set",
		"My Status value must be in list",
	}
	if got := doc.Errors().FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDocument_HookErrorClearsWhenConditionGone(t *testing.T) {
	doc, _ := tavi.New(hookedDefinition(t), map[string]any{
		"name":         "John",
		"payment_type": "Debit",
	})
	if doc.Valid() {
		t.Fatalf("expected invalid document before status is set")
	}

	if err := doc.Set("status", "Good"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !doc.Valid() {
		t.Fatalf("expected valid document, errors: %v", doc.Errors().FullMessages())
	}
	if doc.Errors().Count() != 0 {
		t.Fatalf("expected zero errors, got %d", doc.Errors().Count())
	}
}

func TestDocument_HookAndFieldErrorsAreIndependent(t *testing.T) {
	doc, _ := tavi.New(hookedDefinition(t), map[string]any{
		"name":         "John",
		"payment_type": "Debit",
	})
	if err := doc.Set("status", "Not a valid status"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if doc.Valid() {
		t.Fatalf("expected out-of-list status to stay invalid")
	}
	want := []string{"My Status value must be in list"}
	if got := doc.Errors().FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDocument_StaleHookKeysSurviveRevalidation(t *testing.T) {
	// A hook that never clears its own key accumulates duplicates; the
	// framework only auto-clears field storage keys.
	def := tavi.Define("Sloppy").
		Field(tavi.String("name")).
		Validate(func(d *tavi.Document, errs *tavi.ErrorCollection) {
			errs.Add("custom", "always present")
		}).
		MustBuild()
	doc, _ := tavi.New(def, nil)

	doc.Valid()
	doc.Valid()
	if got := len(doc.Errors().Messages("custom")); got != 3 {
		t.Fatalf("expected hook key to accumulate (3 runs), got %d messages", got)
	}
}

func TestDocument_DirtyTracking(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), nil)
	if len(doc.ChangedFields()) != 0 {
		t.Fatalf("expected a fresh document to have no dirty fields: %v", doc.ChangedFields())
	}

	if err := doc.Set("name", "my sample"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := doc.ChangedFields()["name"]; !ok || len(doc.ChangedFields()) != 1 {
		t.Fatalf("expected dirty set {name}, got %v", doc.ChangedFields())
	}

	// assigning again, same or different value, does not grow the set
	if err := doc.Set("name", "changed name"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(doc.ChangedFields()) != 1 {
		t.Fatalf("expected dirty set to stay at one entry, got %v", doc.ChangedFields())
	}

	doc.ResetChanges()
	if len(doc.ChangedFields()) != 0 {
		t.Fatalf("expected ResetChanges to empty the set, got %v", doc.ChangedFields())
	}
}

func TestDocument_ConstructionDoesNotMarkDirty(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), map[string]any{"name": "John"})
	if len(doc.ChangedFields()) != 0 {
		t.Fatalf("constructor values must not mark fields dirty: %v", doc.ChangedFields())
	}
}

func TestDocument_UnknownConstructorKeys(t *testing.T) {
	doc, diags := tavi.New(sampleDefinition(t), map[string]any{
		"name":        "John",
		"not_a_field": true,
	})
	if got := doc.Get("name"); got != "John" {
		t.Fatalf("known keys must still apply, name=%v", got)
	}
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	dg := diags[0]
	if dg.Document != "Sample" || dg.Key != "not_a_field" || dg.Value != true {
		t.Fatalf("diagnostic mismatch: %+v", dg)
	}
	if !strings.Contains(dg.String(), "not_a_field") {
		t.Fatalf("diagnostic text should name the key: %q", dg.String())
	}
	if doc.Get("not_a_field") != nil {
		t.Fatalf("unknown keys must never be stored")
	}
}

func TestDocument_InstancesDoNotShareState(t *testing.T) {
	def := tavi.Define("User").
		Field(tavi.String("first_name")).
		Field(tavi.String("last_name")).
		MustBuild()

	a, _ := tavi.New(def, map[string]any{"first_name": "John", "last_name": "Doe"})
	b, _ := tavi.New(def, map[string]any{"first_name": "Walter", "last_name": "White"})

	if a.Get("first_name") != "John" || a.Get("last_name") != "Doe" {
		t.Fatalf("instance a corrupted: %v", a.FieldValues())
	}
	if b.Get("first_name") != "Walter" || b.Get("last_name") != "White" {
		t.Fatalf("instance b corrupted: %v", b.FieldValues())
	}
}

func TestDocument_SetUnknownField(t *testing.T) {
	doc, _ := tavi.New(sampleDefinition(t), nil)
	if err := doc.Set("nope", 1); err == nil {
		t.Fatalf("expected an error for an unknown field name")
	}
}

func TestBuilder_RejectsDuplicateNames(t *testing.T) {
	_, err := tavi.Define("Dup").
		Field(tavi.String("name")).
		Field(tavi.Int("name")).
		Build()
	if err == nil {
		t.Fatalf("expected duplicate logical name to fail Build")
	}

	_, err = tavi.Define("Dup").
		Field(tavi.String("a").StoredAs("x")).
		Field(tavi.String("b").StoredAs("x")).
		Build()
	if err == nil {
		t.Fatalf("expected duplicate storage name to fail Build")
	}
}
