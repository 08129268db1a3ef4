package fieldvet

import (
	"reflect"

	"github.com/clayton-klein/fieldvet/internal/normalize"
)

// RecordOf builds a Record from a struct's exported fields, using the same
// field names the ruletag package derives: the Go name with its first rune
// lowered, overridable with a `vet:"name:..."` directive. Fields tagged
// `vet:"-"` are skipped; other rule directives are ignored here.
//
// Validation itself never reflects on candidates. RecordOf is a
// convenience bridge for callers holding struct values, run before the
// Validate or Check call.
func RecordOf(v any) Record {
	rec := make(Record)

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return rec
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return rec
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return rec
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := tagName(field.Tag.Get("vet"))
		if skip {
			continue
		}
		if name == "" {
			name = normalize.FieldName(field.Name)
		}

		rec[name] = rv.Field(i).Interface()
	}

	return rec
}
