package fieldvet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrSealed is returned when registering against a sealed registry.
var ErrSealed = errors.New("fieldvet: registry is sealed")

// manualSource is the provenance name recorded for direct Register calls.
const manualSource = "manual"

// boundRule pairs a rule with the name of the source that declared it.
type boundRule struct {
	rule   Rule
	source string
}

// Registry maps type names to per-field rule lists. Registration only
// appends: later registrations for the same field extend the list in order,
// and nothing removes or overwrites earlier rules. Seal freezes the mapping
// for the remainder of the process lifetime.
//
// Safe for concurrent use: registration takes the writer lock, validation
// a reader lock.
type Registry struct {
	mu     sync.RWMutex
	sealed bool
	strict bool
	types  map[TypeName]map[string][]boundRule
}

// NewRegistry creates an empty registry with strict mode disabled.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[TypeName]map[string][]boundRule),
	}
}

// Register appends rules for a field of the named type. Registering with no
// rules still creates the (type, field) entry, which validates vacuously.
// The only error condition is a sealed registry.
func (r *Registry) Register(t TypeName, field string, rules ...Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	r.register(t, field, manualSource, rules...)
	return nil
}

// MustRegister is Register but panics on error. Intended for setup blocks
// where a sealed registry is a programming error.
func (r *Registry) MustRegister(t TypeName, field string, rules ...Rule) {
	if err := r.Register(t, field, rules...); err != nil {
		panic(err)
	}
}

// register appends rules under an already-held writer lock.
func (r *Registry) register(t TypeName, field, source string, rules ...Rule) {
	fields, ok := r.types[t]
	if !ok {
		fields = make(map[string][]boundRule)
		r.types[t] = fields
	}

	if _, ok := fields[field]; !ok {
		fields[field] = []boundRule{}
	}

	for _, rule := range rules {
		fields[field] = append(fields[field], boundRule{rule: rule, source: source})
	}
}

// LoadFrom loads declarations from each source in order and appends them to
// the registry. All sources are read before any declaration is applied, so
// a failing source leaves the registry unchanged.
func (r *Registry) LoadFrom(ctx context.Context, sources ...Source) error {
	type loaded struct {
		decl   Declaration
		source string
	}

	var pending []loaded
	for _, src := range sources {
		decls, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load source %s: %w", src.Name(), err)
		}
		for _, d := range decls {
			pending = append(pending, loaded{decl: d, source: src.Name()})
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}

	for _, p := range pending {
		r.register(p.decl.Type, p.decl.Field, p.source, p.decl.Rules...)
	}
	return nil
}

// Seal freezes the registry. Subsequent Register and LoadFrom calls return
// ErrSealed. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the registry has been sealed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Strict controls whether candidates may carry fields that were never
// registered for their type. Default: false (extra fields are ignored).
// Strict mode does not affect types with no registry entry.
func (r *Registry) Strict(strict bool) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = strict
	return r
}

// Validate reports whether the candidate satisfies every rule registered
// for the named type. A type with no entry validates vacuously true.
// Validation never mutates the candidate or the registry.
func (r *Registry) Validate(t TypeName, rec Record) bool {
	return r.Check(t, rec) == nil
}

// Check is Validate with diagnostics: it returns nil when the candidate is
// valid, and a *ValidationError listing every failed rule otherwise. Fields
// are reported in sorted order, rules in registration order.
func (r *Registry) Check(t TypeName, rec Record) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.types[t]
	if !ok {
		return nil
	}

	var fieldErrors []FieldError

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := rec[name]
		for _, br := range fields[name] {
			if br.rule.Evaluate(value) {
				continue
			}
			fieldErrors = append(fieldErrors, FieldError{
				Field:   name,
				Code:    string(br.rule.Kind()),
				Message: br.rule.failureMessage(value),
			})
		}
	}

	if r.strict {
		var unknown []string
		for key := range rec {
			if _, ok := fields[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)

		for _, key := range unknown {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   key,
				Code:    ErrCodeUnknownField,
				Message: "field is not registered for this type (strict mode)",
			})
		}
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{TypeName: t, FieldErrors: fieldErrors}
	}
	return nil
}

// Types returns the sorted names of all registered types, including types
// whose fields carry no rules.
func (r *Registry) Types() []TypeName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]TypeName, 0, len(r.types))
	for t := range r.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Fields returns the sorted field names registered for a type.
func (r *Registry) Fields(t TypeName) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields, ok := r.types[t]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns a copy of the rules registered for a field, in
// registration order.
func (r *Registry) Rules(t TypeName, field string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bound, ok := r.types[t][field]
	if !ok {
		return nil
	}

	rules := make([]Rule, len(bound))
	for i, br := range bound {
		rules[i] = br.rule
	}
	return rules
}

// Provenance returns the declaring source name for each of a field's rules,
// parallel to Rules. Direct Register calls record "manual".
func (r *Registry) Provenance(t TypeName, field string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bound, ok := r.types[t][field]
	if !ok {
		return nil
	}

	sources := make([]string, len(bound))
	for i, br := range bound {
		sources[i] = br.source
	}
	return sources
}

// tableField is one field's rules and declaring sources, for rendering.
type tableField struct {
	name    string
	rules   []Rule
	sources []string // unique, in first-seen order
}

// tableEntry is one type's fields, for rendering.
type tableEntry struct {
	typeName TypeName
	fields   []tableField
}

// snapshotTable copies the rule table with types and fields sorted.
func (r *Registry) snapshotTable() []tableEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeNames := make([]TypeName, 0, len(r.types))
	for t := range r.types {
		typeNames = append(typeNames, t)
	}
	sort.Slice(typeNames, func(i, j int) bool { return typeNames[i] < typeNames[j] })

	entries := make([]tableEntry, 0, len(typeNames))
	for _, t := range typeNames {
		fields := r.types[t]

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		entry := tableEntry{typeName: t}
		for _, name := range names {
			tf := tableField{name: name}
			seen := make(map[string]bool)
			for _, br := range fields[name] {
				tf.rules = append(tf.rules, br.rule)
				if !seen[br.source] {
					seen[br.source] = true
					tf.sources = append(tf.sources, br.source)
				}
			}
			entry.fields = append(entry.fields, tf)
		}
		entries = append(entries, entry)
	}

	return entries
}

// defaultRegistry backs the package-level registration and validation
// functions, giving callers one process-wide rule mapping.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry {
	return defaultRegistry
}

// Register appends rules for a field of the named type in the default
// registry.
func Register(t TypeName, field string, rules ...Rule) error {
	return defaultRegistry.Register(t, field, rules...)
}

// MustRegister is Register on the default registry, panicking on error.
func MustRegister(t TypeName, field string, rules ...Rule) {
	defaultRegistry.MustRegister(t, field, rules...)
}

// LoadFrom loads declarations into the default registry.
func LoadFrom(ctx context.Context, sources ...Source) error {
	return defaultRegistry.LoadFrom(ctx, sources...)
}

// Seal freezes the default registry.
func Seal() {
	defaultRegistry.Seal()
}

// Validate checks a candidate against the default registry.
func Validate(t TypeName, rec Record) bool {
	return defaultRegistry.Validate(t, rec)
}

// Check validates a candidate against the default registry with
// diagnostics.
func Check(t TypeName, rec Record) error {
	return defaultRegistry.Check(t, rec)
}
