package tavi_test

import (
	"reflect"
	"testing"

	"github.com/rgan/tavi"
)

func TestErrorCollection_AddAndCount(t *testing.T) {
	ec := tavi.NewErrorCollection()
	if ec.Count() != 0 {
		t.Fatalf("expected empty collection, count=%d", ec.Count())
	}

	ec.Add("name", "is required")
	ec.Add("email", "is required")
	ec.Add("email", "is not valid")

	if ec.Count() != 3 {
		t.Fatalf("expected count=3, got %d", ec.Count())
	}
	if got := ec.Messages("email"); len(got) != 2 {
		t.Fatalf("expected 2 messages for email, got %v", got)
	}
}

func TestErrorCollection_FullMessagesOrder(t *testing.T) {
	ec := tavi.NewErrorCollection()
	ec.Add("my_status", "value must be in list")
	ec.Add("name", "is required")
	ec.Add("my_status", "is not unique")

	want := []string{
		"My Status value must be in list",
		"My Status is not unique",
		"Name is required",
	}
	if got := ec.FullMessages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("full messages mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestErrorCollection_ClearIsKeyLocal(t *testing.T) {
	ec := tavi.NewErrorCollection()
	ec.Add("name", "is required")
	ec.Add("status", "is required if payment type is set")

	ec.Clear("status")
	if ec.Count() != 1 {
		t.Fatalf("expected clearing status to leave name untouched, count=%d", ec.Count())
	}
	if got := ec.Messages("name"); len(got) != 1 {
		t.Fatalf("name messages lost: %v", got)
	}

	// unknown key is a no-op
	ec.Clear("nope")
	if ec.Count() != 1 {
		t.Fatalf("clearing an unknown key changed the collection, count=%d", ec.Count())
	}
}

func TestErrorCollection_ClearAll(t *testing.T) {
	ec := tavi.NewErrorCollection()
	ec.Add("a", "one")
	ec.Add("b", "two")
	ec.ClearAll()
	if ec.Count() != 0 || len(ec.FullMessages()) != 0 {
		t.Fatalf("expected an empty collection after ClearAll")
	}
}

func TestTitleize(t *testing.T) {
	cases := map[string]string{
		"my_status":   "My Status",
		"name":        "Name",
		"order_lines": "Order Lines",
		"_id":         " Id",
	}
	for in, want := range cases {
		if got := tavi.Titleize(in); got != want {
			t.Fatalf("Titleize(%q) = %q, want %q", in, got, want)
		}
	}
}
