package tavi

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity declares the structural "_id" field: a UUID generated at
// construction when the constructor values do not supply one. The field
// is hidden from Fields() and the attribute projection but present in
// the storage projection.
func (b *Builder) Identity() *Builder {
	b.def.identity = true
	return b.Field(UUID("_id").markStructural())
}

// Timestamps declares created_at and last_modified_at time fields for a
// persistence layer to maintain through Touch.
func (b *Builder) Timestamps() *Builder {
	b.def.timestamps = true
	return b.Field(Time("created_at")).Field(Time("last_modified_at"))
}

// Collection overrides the derived storage collection name.
func (b *Builder) Collection(name string) *Builder {
	b.def.collection = name
	return b
}

// Collection returns the configured collection name, defaulting to the
// snake-cased plural of the definition name ("OrderLine" ->
// "order_lines").
func (def *Definition) Collection() string {
	if def.collection != "" {
		return def.collection
	}
	return pluralize(snakeCase(def.name))
}

// ID returns the document identity when the definition declares one.
func (d *Document) ID() (uuid.UUID, bool) {
	v, ok := d.values["_id"].(uuid.UUID)
	return v, ok
}

// Touch stamps the timestamp fields: created_at only when still unset,
// last_modified_at on every call. Intended for the persistence layer
// right before a write.
func (d *Document) Touch(now time.Time) {
	if !d.def.timestamps {
		return
	}
	if isEmpty(d.values["created_at"]) {
		_ = d.Set("created_at", now)
	}
	_ = d.Set("last_modified_at", now)
}

// fillIdentity generates the UUID for identity definitions when the
// constructor did not supply one. Runs once per construction and never
// marks the slot dirty.
func (d *Document) fillIdentity() {
	if !d.def.identity {
		return
	}
	if v, ok := d.values["_id"].(uuid.UUID); ok && v != uuid.Nil {
		return
	}
	d.values["_id"] = uuid.New()
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pluralize(name string) string {
	switch {
	case strings.HasSuffix(name, "s"), strings.HasSuffix(name, "x"),
		strings.HasSuffix(name, "ch"), strings.HasSuffix(name, "sh"):
		return name + "es"
	case strings.HasSuffix(name, "y") && len(name) > 1 && !isVowel(name[len(name)-2]):
		return name[:len(name)-1] + "ies"
	}
	return name + "s"
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
