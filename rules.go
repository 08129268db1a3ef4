package fieldvet

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RuleKind enumerates the built-in rule variants. The set is closed:
// adding a kind means adding a constant, a constructor, and a predicate.
type RuleKind string

const (
	KindRequired RuleKind = "required"
	KindPositive RuleKind = "positive"
	KindMin      RuleKind = "min"
	KindMax      RuleKind = "max"
	KindMinLen   RuleKind = "minlen"
	KindMaxLen   RuleKind = "maxlen"
	KindOneOf    RuleKind = "oneof"
	KindPattern  RuleKind = "pattern"
	KindUUID     RuleKind = "uuid"
	KindCustom   RuleKind = "custom"
)

// Rule is one validation constraint on a single field value. Rules are
// built with the constructor functions (Required, Min, OneOf, ...) and
// evaluate as pure predicates: no I/O, no mutation of the value.
type Rule struct {
	kind    RuleKind
	limit   float64        // min, max
	length  int            // minlen, maxlen
	options []string       // oneof
	re      *regexp.Regexp // pattern
	name    string         // custom
	check   func(any) bool // custom
}

// Kind returns the rule's variant.
func (r Rule) Kind() RuleKind {
	return r.kind
}

// String returns the rule in directive form (e.g., "min:1", "oneof:a,b").
// ParseRule(r.String()) reproduces every rule the directive grammar can
// express. Custom rules have no parseable form, and a oneof option
// containing a comma or surrounding whitespace comes back changed.
func (r Rule) String() string {
	switch r.kind {
	case KindMin:
		return "min:" + strconv.FormatFloat(r.limit, 'f', -1, 64)
	case KindMax:
		return "max:" + strconv.FormatFloat(r.limit, 'f', -1, 64)
	case KindMinLen:
		return "minlen:" + strconv.Itoa(r.length)
	case KindMaxLen:
		return "maxlen:" + strconv.Itoa(r.length)
	case KindOneOf:
		return "oneof:" + strings.Join(r.options, ",")
	case KindPattern:
		return "pattern:" + r.re.String()
	case KindCustom:
		return "custom:" + r.name
	default:
		return string(r.kind)
	}
}

// Required passes when the value is present and not the zero value for its
// type. Nil, empty strings, zero numbers, false, and empty containers fail.
func Required() Rule {
	return Rule{kind: KindRequired}
}

// PositiveNumber passes when the value is a number strictly greater than
// zero. Non-numeric values fail, including numeric strings.
func PositiveNumber() Rule {
	return Rule{kind: KindPositive}
}

// Min passes when the value is a number greater than or equal to limit.
func Min(limit float64) Rule {
	return Rule{kind: KindMin, limit: limit}
}

// Max passes when the value is a number less than or equal to limit.
func Max(limit float64) Rule {
	return Rule{kind: KindMax, limit: limit}
}

// MinLen passes when the value is a string, slice, array, or map with at
// least n elements. String length is measured in bytes.
func MinLen(n int) Rule {
	return Rule{kind: KindMinLen, length: n}
}

// MaxLen passes when the value is a string, slice, array, or map with at
// most n elements. String length is measured in bytes.
func MaxLen(n int) Rule {
	return Rule{kind: KindMaxLen, length: n}
}

// OneOf passes when the value's string form equals one of the options.
// Strings compare directly; ints, uints, floats, and bools are stringified
// first. Other types fail.
// An option containing a comma or surrounding whitespace cannot be written
// as a directive; ExportManifest refuses such rules.
func OneOf(options ...string) Rule {
	opts := make([]string, len(options))
	copy(opts, options)
	return Rule{kind: KindOneOf, options: opts}
}

// Pattern passes when the value is a string matching re.
// The expression must be non-nil; use regexp.MustCompile for literals.
func Pattern(re *regexp.Regexp) Rule {
	if re == nil {
		panic("fieldvet: Pattern requires a compiled expression")
	}
	return Rule{kind: KindPattern, re: re}
}

// ValidUUID passes when the value is a string in RFC 4122 UUID form.
func ValidUUID() Rule {
	return Rule{kind: KindUUID}
}

// Custom wraps a caller-supplied predicate. The name labels diagnostics.
// Custom rules cannot be expressed in directives or exported to manifests.
func Custom(name string, fn func(any) bool) Rule {
	if fn == nil {
		panic("fieldvet: Custom requires a predicate function")
	}
	if name == "" {
		name = "custom"
	}
	return Rule{kind: KindCustom, name: name, check: fn}
}

// Evaluate reports whether value satisfies the rule. A field missing from
// the candidate evaluates as nil.
func (r Rule) Evaluate(value any) bool {
	switch r.kind {
	case KindRequired:
		return checkRequired(value)
	case KindPositive:
		return checkPositive(value)
	case KindMin:
		return checkMin(value, r.limit)
	case KindMax:
		return checkMax(value, r.limit)
	case KindMinLen:
		return checkMinLen(value, r.length)
	case KindMaxLen:
		return checkMaxLen(value, r.length)
	case KindOneOf:
		return checkOneOf(value, r.options)
	case KindPattern:
		return checkPattern(value, r.re)
	case KindUUID:
		return checkUUID(value)
	case KindCustom:
		return r.check(value)
	default:
		return false
	}
}

// failureMessage describes why value failed the rule.
func (r Rule) failureMessage(value any) string {
	switch r.kind {
	case KindRequired:
		return "field is required but not provided"
	case KindPositive:
		if n, ok := toFloat64(value); ok {
			return fmt.Sprintf("value %g is not greater than zero", n)
		}
		return fmt.Sprintf("value %v is not a number", value)
	case KindMin:
		if n, ok := toFloat64(value); ok {
			return fmt.Sprintf("value %g is below minimum %g", n, r.limit)
		}
		return fmt.Sprintf("value %v is not a number", value)
	case KindMax:
		if n, ok := toFloat64(value); ok {
			return fmt.Sprintf("value %g exceeds maximum %g", n, r.limit)
		}
		return fmt.Sprintf("value %v is not a number", value)
	case KindMinLen:
		if n, ok := lengthOf(value); ok {
			return fmt.Sprintf("length %d is below minimum %d", n, r.length)
		}
		return fmt.Sprintf("value %v has no length", value)
	case KindMaxLen:
		if n, ok := lengthOf(value); ok {
			return fmt.Sprintf("length %d exceeds maximum %d", n, r.length)
		}
		return fmt.Sprintf("value %v has no length", value)
	case KindOneOf:
		if s, ok := stringify(value); ok {
			return fmt.Sprintf("value %q must be one of: %s", s, strings.Join(r.options, ", "))
		}
		return fmt.Sprintf("value %v must be one of: %s", value, strings.Join(r.options, ", "))
	case KindPattern:
		if s, ok := stringValue(value); ok {
			return fmt.Sprintf("value %q does not match pattern %s", s, r.re.String())
		}
		return fmt.Sprintf("value %v is not a string", value)
	case KindUUID:
		if s, ok := stringValue(value); ok {
			return fmt.Sprintf("value %q is not a valid UUID", s)
		}
		return fmt.Sprintf("value %v is not a string", value)
	case KindCustom:
		return fmt.Sprintf("value rejected by %s", r.name)
	default:
		return "rule failed"
	}
}

func checkRequired(value any) bool {
	return !isZero(value)
}

func checkPositive(value any) bool {
	n, ok := toFloat64(value)
	return ok && n > 0
}

func checkMin(value any, limit float64) bool {
	n, ok := toFloat64(value)
	return ok && n >= limit
}

func checkMax(value any, limit float64) bool {
	n, ok := toFloat64(value)
	return ok && n <= limit
}

func checkMinLen(value any, min int) bool {
	n, ok := lengthOf(value)
	return ok && n >= min
}

func checkMaxLen(value any, max int) bool {
	n, ok := lengthOf(value)
	return ok && n <= max
}

func checkOneOf(value any, options []string) bool {
	s, ok := stringify(value)
	if !ok {
		return false
	}
	for _, allowed := range options {
		if s == allowed {
			return true
		}
	}
	return false
}

func checkPattern(value any, re *regexp.Regexp) bool {
	s, ok := stringValue(value)
	return ok && re.MatchString(s)
}

// checkUUID rejects on shape (length, hyphen positions) before parsing.
func checkUUID(value any) bool {
	s, ok := stringValue(value)
	if !ok || len(s) != 36 {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// isZero checks if a value is nil or the zero value for its type.
func isZero(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

// toFloat64 converts any numeric value to float64. Named numeric types
// convert through their kind.
func toFloat64(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// stringify converts a value to its string form for oneof comparison.
func stringify(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	default:
		return "", false
	}
}

// stringValue returns the value as a string when its kind is string.
func stringValue(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

// lengthOf returns the element count of strings, slices, arrays, and maps.
func lengthOf(value any) (int, bool) {
	if value == nil {
		return 0, false
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), true
	default:
		return 0, false
	}
}
