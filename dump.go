package fieldvet

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpRules.
type dumpConfig struct {
	withProvenance bool   // Include declaring sources for each field
	asJSON         bool   // Output as JSON instead of text format
	indent         string // Indentation for JSON output (default: "  ")
}

// WithProvenance includes the declaring source names for each field in the
// text output.
func WithProvenance() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withProvenance = true
	}
}

// AsJSON outputs the rule table as JSON instead of text format. The JSON
// form is the same document shape the rulefile package reads.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpRules writes a human-readable listing of every registered rule, with
// types and fields sorted and rules in registration order. Intended for
// startup diagnostics and documentation.
func DumpRules(w io.Writer, r *Registry, opts ...DumpOption) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}

	// Apply options
	config := dumpConfig{
		indent: "  ", // Default indent
	}
	for _, opt := range opts {
		opt(&config)
	}

	table := r.snapshotTable()

	if config.asJSON {
		return dumpAsJSON(w, table, config)
	}
	return dumpAsText(w, table, config)
}

// dumpAsText renders the rule table as indented "field: directives" lines.
func dumpAsText(w io.Writer, table []tableEntry, config dumpConfig) error {
	for _, entry := range table {
		if _, err := fmt.Fprintf(w, "%s:\n", string(entry.typeName)); err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		for _, field := range entry.fields {
			line := fmt.Sprintf("  %s: %s", field.name, joinDirectives(field.rules))
			if config.withProvenance && len(field.sources) > 0 {
				line += fmt.Sprintf(" (source: %s)", strings.Join(field.sources, ", "))
			}
			line += "\n"

			if _, err := w.Write([]byte(line)); err != nil {
				return fmt.Errorf("write error: %w", err)
			}
		}
	}

	return nil
}

// dumpAsJSON renders the rule table as a JSON document mapping type names
// to fields to directive lists.
func dumpAsJSON(w io.Writer, table []tableEntry, config dumpConfig) error {
	result := make(map[TypeName]map[string][]string, len(table))
	for _, entry := range table {
		fields := make(map[string][]string, len(entry.fields))
		for _, field := range entry.fields {
			directives := make([]string, 0, len(field.rules))
			for _, rule := range field.rules {
				directives = append(directives, rule.String())
			}
			fields[field.name] = directives
		}
		result[entry.typeName] = fields
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	// Trailing newline for better formatting
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// joinDirectives renders a rule list for text output.
func joinDirectives(rules []Rule) string {
	if len(rules) == 0 {
		return "(no rules)"
	}

	directives := make([]string, len(rules))
	for i, rule := range rules {
		directives[i] = rule.String()
	}
	return strings.Join(directives, ", ")
}
