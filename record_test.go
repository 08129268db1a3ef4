package fieldvet

import (
	"testing"
)

type enrollmentRecord struct {
	Student  string  `vet:"required,minlen:2"`
	Seats    int     `vet:"name:seatCount,positive"`
	Internal string  `vet:"-"`
	Discount float64 // no tag, still included
	hidden   string
}

func TestRecordOf(t *testing.T) {
	rec := RecordOf(enrollmentRecord{
		Student:  "ada",
		Seats:    2,
		Internal: "audit",
		Discount: 0.1,
		hidden:   "x",
	})

	if len(rec) != 3 {
		t.Fatalf("expected 3 fields, got %d: %v", len(rec), rec)
	}
	if rec["student"] != "ada" {
		t.Errorf("expected student ada, got %v", rec["student"])
	}
	if rec["seatCount"] != 2 {
		t.Errorf("expected seatCount 2, got %v", rec["seatCount"])
	}
	if rec["discount"] != 0.1 {
		t.Errorf("expected discount 0.1, got %v", rec["discount"])
	}
	if _, ok := rec["internal"]; ok {
		t.Error("fields tagged - should be skipped")
	}
	if _, ok := rec["hidden"]; ok {
		t.Error("unexported fields should be skipped")
	}
}

func TestRecordOf_Pointer(t *testing.T) {
	rec := RecordOf(&enrollmentRecord{Student: "ada", Seats: 2})

	if rec["student"] != "ada" {
		t.Errorf("expected student ada, got %v", rec["student"])
	}
}

func TestRecordOf_NilInputs(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"nil", nil},
		{"nil pointer", (*enrollmentRecord)(nil)},
		{"non-struct int", 42},
		{"non-struct string", "course"},
		{"non-struct map", map[string]any{"title": "Go Basics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecordOf(tt.v)
			if rec == nil {
				t.Fatal("expected empty record, got nil")
			}
			if len(rec) != 0 {
				t.Errorf("expected empty record, got %v", rec)
			}
		})
	}
}

func TestRecordOf_NameDerivation(t *testing.T) {
	type sample struct {
		Title  string
		APIKey string
		ID     string
	}

	rec := RecordOf(sample{Title: "t", APIKey: "k", ID: "i"})

	for _, name := range []string{"title", "aPIKey", "iD"} {
		if _, ok := rec[name]; !ok {
			t.Errorf("expected derived field name %q, got %v", name, rec)
		}
	}
}

func TestRecordOf_ValidatesAgainstRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("enrollment", "student", Required(), MinLen(2))
	reg.MustRegister("enrollment", "seatCount", PositiveNumber())

	if !reg.Validate("enrollment", RecordOf(enrollmentRecord{Student: "ada", Seats: 2})) {
		t.Error("expected valid struct to pass")
	}
	if reg.Validate("enrollment", RecordOf(enrollmentRecord{Student: "a", Seats: 0})) {
		t.Error("expected invalid struct to fail")
	}
}
