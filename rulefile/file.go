package rulefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clayton-klein/fieldvet"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when the format is neither set in
// Options nor inferable from the file extension.
var ErrUnsupportedFormat = errors.New("rulefile: unsupported format")

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, a missing file causes an error. Default: false
	// (a missing file loads zero declarations).
	Required bool
}

type fileSource struct {
	path string
	opts Options
}

// New creates a rule file source. The document maps type names to field
// names to directive lists, in every format:
//
//	course:
//	  title: ["required", "minlen:1"]
//	  price: ["positive", "max:500"]
func New(path string, opts Options) fieldvet.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file into declarations. Types and fields are
// emitted in sorted order, each field's directives in document order.
func (f *fileSource) Load(ctx context.Context) ([]fieldvet.Declaration, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required rules file not found: %s: %w", f.path, err)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read rules file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]map[string][]string
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML rules file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON rules file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML rules file %s: %w", f.path, err)
		}
	default:
		return nil, fmt.Errorf("%w for %s (supported: yaml, json, toml)", ErrUnsupportedFormat, f.path)
	}

	return f.declarations(raw)
}

// declarations converts a parsed document into an ordered declaration list.
func (f *fileSource) declarations(raw map[string]map[string][]string) ([]fieldvet.Declaration, error) {
	typeNames := make([]string, 0, len(raw))
	for typeName := range raw {
		typeNames = append(typeNames, typeName)
	}
	sort.Strings(typeNames)

	var decls []fieldvet.Declaration
	for _, typeName := range typeNames {
		fields := raw[typeName]

		fieldNames := make([]string, 0, len(fields))
		for fieldName := range fields {
			fieldNames = append(fieldNames, fieldName)
		}
		sort.Strings(fieldNames)

		for _, fieldName := range fieldNames {
			rules := make([]fieldvet.Rule, 0, len(fields[fieldName]))
			for _, directive := range fields[fieldName] {
				rule, err := fieldvet.ParseRule(directive)
				if err != nil {
					return nil, fmt.Errorf("rules file %s: %s.%s: %w", f.path, typeName, fieldName, err)
				}
				rules = append(rules, rule)
			}

			decls = append(decls, fieldvet.Declaration{
				Type:  fieldvet.TypeName(typeName),
				Field: fieldName,
				Rules: rules,
			})
		}
	}

	return decls, nil
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
