package fieldvet

import (
	"fmt"
	"strings"
)

// ErrCodeUnknownField is the FieldError code reported in strict mode for
// candidate fields that were never registered. All other codes mirror the
// rule kind that failed ("required", "positive", "min", ...).
const ErrCodeUnknownField = "unknown_field"

// ValidationError aggregates field-level validation failures for one
// candidate. Returned by Check; a nil error means the candidate is valid.
type ValidationError struct {
	TypeName    TypeName
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return fmt.Sprintf("validation failed for %q: no errors", string(e.TypeName))
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		fmt.Fprintf(&b, "validation failed for %q: 1 error\n", string(e.TypeName))
	} else {
		fmt.Fprintf(&b, "validation failed for %q: %d errors\n", string(e.TypeName), len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.Field, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single field validation failure.
type FieldError struct {
	Field   string // Record field name (e.g., "price")
	Code    string // Rule kind that failed (e.g., "required", "positive")
	Message string // Human-readable description
}
