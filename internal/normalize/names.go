package normalize

import (
	"unicode"
)

// FieldName derives a record field name from a Go struct field name.
// It lowercases the first letter of the field name.
// Examples:
//   - "Title" → "title"
//   - "Price" → "price"
//   - "APIKey" → "aPIKey"
func FieldName(fieldName string) string {
	if fieldName == "" {
		return ""
	}

	// Convert first rune to lowercase
	runes := []rune(fieldName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// TypeName derives a registry type name from a Go type name, using the
// same convention as FieldName.
// Examples:
//   - "Course" → "course"
//   - "OrderItem" → "orderItem"
func TypeName(typeName string) string {
	return FieldName(typeName)
}
