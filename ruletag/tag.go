package ruletag

import (
	"context"
	"fmt"
	"reflect"

	"github.com/clayton-klein/fieldvet"
	"github.com/clayton-klein/fieldvet/internal/normalize"
)

type tagSource struct {
	typeName  fieldvet.TypeName
	prototype any
}

// New creates a struct tag source for the given prototype value. When
// typeName is empty, it is derived from the struct type name with its
// first rune lowered (Course → "course").
func New(typeName fieldvet.TypeName, prototype any) fieldvet.Source {
	return &tagSource{
		typeName:  typeName,
		prototype: prototype,
	}
}

// Load walks the prototype's exported fields and parses their `vet` tags.
// Declared field names follow the record key convention: the Go name with
// its first rune lowered, overridable with a leading name: directive.
// Fields tagged `vet:"-"` or carrying no tag are skipped. The model is
// flat: embedded and nested structs are not descended into.
func (s *tagSource) Load(ctx context.Context) ([]fieldvet.Declaration, error) {
	t := reflect.TypeOf(s.prototype)
	if t == nil {
		return nil, fmt.Errorf("prototype is nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("prototype must be a struct, got %s", t.Kind())
	}

	typeName := s.typeName
	if typeName == "" {
		if t.Name() == "" {
			return nil, fmt.Errorf("cannot derive a type name for an anonymous struct")
		}
		typeName = fieldvet.TypeName(normalize.TypeName(t.Name()))
	}

	var decls []fieldvet.Declaration
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("vet")
		if tag == "" || tag == "-" {
			continue
		}

		spec, err := fieldvet.ParseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}

		name := spec.Name
		if name == "" {
			name = normalize.FieldName(field.Name)
		}

		decls = append(decls, fieldvet.Declaration{
			Type:  typeName,
			Field: name,
			Rules: spec.Rules,
		})
	}

	return decls, nil
}

// Name returns a human-readable identifier for this source.
func (s *tagSource) Name() string {
	t := reflect.TypeOf(s.prototype)
	if t == nil {
		return "tag:<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return "tag:" + t.Name()
}
