package fieldvet

import (
	"context"
)

// TypeName identifies a candidate type in a registry. Names are explicit
// caller-chosen identifiers (e.g., "course"), never derived from the
// candidate at validation time.
type TypeName string

// Record is a candidate object presented for validation: field name → value.
// A missing field and a nil value are treated the same by every rule.
type Record map[string]any

// Declaration carries one field's rules as produced by a Source. An empty
// Rules list still declares the (type, field) entry.
type Declaration struct {
	Type  TypeName
	Field string
	Rules []Rule
}

// Source provides rule declarations from backends (files, struct tags).
// Declarations are applied in the order returned.
type Source interface {
	// Load returns all declarations. Missing optional backends should
	// return an empty slice, not an error.
	Load(ctx context.Context) ([]Declaration, error)

	// Name returns a short identifier used for provenance and in error
	// messages (e.g., "file:rules.yaml").
	Name() string
}
