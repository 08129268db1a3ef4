// Package fieldvet provides a process-wide registry of field validation
// rules keyed by explicit type names, with declarative loading from struct
// tags and rule files.
//
// Quick Start:
//
//	reg := fieldvet.NewRegistry()
//	reg.MustRegister("course", "title", fieldvet.Required())
//	reg.MustRegister("course", "price", fieldvet.PositiveNumber())
//	reg.Seal()
//
//	ok := reg.Validate("course", fieldvet.Record{"title": "Go Basics", "price": 49.0})
//
// Rule directives: required, positive, min:N, max:N, minlen:N, maxlen:N, oneof:a,b,c, pattern:RE, uuid
//
// A comma normally separates directives; inside a oneof or pattern
// parameter it is kept unless a known directive name follows it.
//
// See example_test.go and the rulefile and ruletag packages for detailed usage.
package fieldvet
