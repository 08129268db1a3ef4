package fieldvet

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrManifestCustomRule is returned when exporting a registry that holds
// custom rules. Custom predicates are code and have no directive form.
var ErrManifestCustomRule = errors.New("fieldvet: custom rules cannot be exported to a manifest")

// ErrManifestUnrepresentableRule is returned when exporting a rule whose
// directive form would not load back as the same rule, such as a oneof
// option that contains a comma.
var ErrManifestUnrepresentableRule = errors.New("fieldvet: rule cannot be represented in a manifest")

// ExportManifest serializes the rule table as an indented JSON document
// mapping type names to fields to directive lists. The document is the
// exact shape the rulefile package reads, so an exported manifest loads
// back into a fresh registry with the same rules.
func (r *Registry) ExportManifest(w io.Writer) error {
	table := r.snapshotTable()

	doc := make(map[TypeName]map[string][]string, len(table))
	for _, entry := range table {
		fields := make(map[string][]string, len(entry.fields))
		for _, field := range entry.fields {
			directives := make([]string, 0, len(field.rules))
			for _, rule := range field.rules {
				if rule.Kind() == KindCustom {
					return fmt.Errorf("%w: %s.%s", ErrManifestCustomRule, string(entry.typeName), field.name)
				}
				directive := rule.String()
				if !roundTrips(directive) {
					return fmt.Errorf("%w: %s.%s (%s)", ErrManifestUnrepresentableRule, string(entry.typeName), field.name, directive)
				}
				directives = append(directives, directive)
			}
			fields[field.name] = directives
		}
		doc[entry.typeName] = fields
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// WriteManifest persists the rule table to disk with atomic write
// semantics: the document is written to a temp file in the target
// directory, then renamed over the target path.
func (r *Registry) WriteManifest(path string) error {
	var buf bytes.Buffer
	if err := r.ExportManifest(&buf); err != nil {
		return err
	}

	// Create parent directories
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
			return mkdirErr
		}
	}

	tempPath, err := tempFileName(path)
	if err != nil {
		return err
	}

	// Ensure temp file is cleaned up on any error
	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, buf.Bytes(), 0644); err != nil {
		return err
	}
	tempFileCreated = true

	// Atomic rename temp file to target path
	if err := os.Rename(tempPath, path); err != nil {
		return err
	}
	tempFileCreated = false

	return nil
}

// roundTrips reports whether a directive parses back to a rule with the
// same directive form. A oneof option that carries a comma or surrounding
// whitespace comes back re-split or trimmed by the parser; an empty
// option is dropped.
func roundTrips(directive string) bool {
	parsed, err := ParseRule(directive)
	return err == nil && parsed.String() == directive
}

// tempFileName generates a unique temporary file name next to the target
// so the rename stays on the same filesystem.
// Format: targetPath + ".tmp." + randomHex
func tempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	suffix := hex.EncodeToString(randomBytes)
	return targetPath + ".tmp." + suffix, nil
}
