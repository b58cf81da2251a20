package tavi

import "fmt"

// Diagnostic reports a constructor key that matched no declared field.
// Construction drops the key and proceeds; the event is returned to the
// caller rather than logged.
type Diagnostic struct {
	Document string
	Key      string
	Value    any
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("ignoring unknown field for %s: %q = %v", d.Document, d.Key, d.Value)
}
