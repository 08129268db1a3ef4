package fieldvet

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name        string
		directive   string
		wantKind    RuleKind
		wantErr     bool
		errContains string
	}{
		{
			name:      "required",
			directive: "required",
			wantKind:  KindRequired,
		},
		{
			name:      "positive",
			directive: "positive",
			wantKind:  KindPositive,
		},
		{
			name:      "uuid",
			directive: "uuid",
			wantKind:  KindUUID,
		},
		{
			name:      "min with integer",
			directive: "min:1",
			wantKind:  KindMin,
		},
		{
			name:      "min with fraction",
			directive: "min:0.5",
			wantKind:  KindMin,
		},
		{
			name:      "min with negative limit",
			directive: "min:-10",
			wantKind:  KindMin,
		},
		{
			name:      "min with exponent",
			directive: "min:1e3",
			wantKind:  KindMin,
		},
		{
			name:      "max",
			directive: "max:500",
			wantKind:  KindMax,
		},
		{
			name:      "minlen",
			directive: "minlen:3",
			wantKind:  KindMinLen,
		},
		{
			name:      "maxlen",
			directive: "maxlen:80",
			wantKind:  KindMaxLen,
		},
		{
			name:      "oneof",
			directive: "oneof:draft,published",
			wantKind:  KindOneOf,
		},
		{
			name:      "oneof trims option whitespace",
			directive: "oneof:a, b",
			wantKind:  KindOneOf,
		},
		{
			name:      "oneof drops empty options",
			directive: "oneof:a,,b",
			wantKind:  KindOneOf,
		},
		{
			name:      "pattern",
			directive: "pattern:^[a-z]+$",
			wantKind:  KindPattern,
		},
		{
			name:      "surrounding whitespace trimmed",
			directive: "  required  ",
			wantKind:  KindRequired,
		},
		{
			name:        "empty directive",
			directive:   "",
			wantErr:     true,
			errContains: "empty rule directive",
		},
		{
			name:        "unknown rule",
			directive:   "banana",
			wantErr:     true,
			errContains: "unknown rule",
		},
		{
			name:        "required takes no parameter",
			directive:   "required:true",
			wantErr:     true,
			errContains: "takes no parameter",
		},
		{
			name:        "positive takes no parameter",
			directive:   "positive:1",
			wantErr:     true,
			errContains: "takes no parameter",
		},
		{
			name:        "uuid takes no parameter",
			directive:   "uuid:v4",
			wantErr:     true,
			errContains: "takes no parameter",
		},
		{
			name:        "min not a number",
			directive:   "min:abc",
			wantErr:     true,
			errContains: "invalid min parameter",
		},
		{
			name:        "min missing parameter",
			directive:   "min:",
			wantErr:     true,
			errContains: "invalid min parameter",
		},
		{
			name:        "max not a number",
			directive:   "max:high",
			wantErr:     true,
			errContains: "invalid max parameter",
		},
		{
			name:        "minlen not an integer",
			directive:   "minlen:2.5",
			wantErr:     true,
			errContains: "invalid minlen parameter",
		},
		{
			name:        "maxlen not an integer",
			directive:   "maxlen:x",
			wantErr:     true,
			errContains: "invalid maxlen parameter",
		},
		{
			name:        "oneof without options",
			directive:   "oneof:",
			wantErr:     true,
			errContains: "at least one option",
		},
		{
			name:        "oneof with only empty options",
			directive:   "oneof:,,",
			wantErr:     true,
			errContains: "at least one option",
		},
		{
			name:        "pattern with invalid regexp",
			directive:   "pattern:[",
			wantErr:     true,
			errContains: "invalid pattern parameter",
		},
		{
			name:        "custom is not parseable",
			directive:   "custom:even",
			wantErr:     true,
			errContains: "cannot be parsed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.directive)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got rule %q", rule.String())
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rule.Kind() != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, rule.Kind())
			}
		})
	}
}

func TestParseRule_UnknownRuleSentinel(t *testing.T) {
	_, err := ParseRule("banana")
	if !errors.Is(err, ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}
	if !strings.Contains(err.Error(), `"banana"`) {
		t.Errorf("error should name the unknown directive, got %q", err.Error())
	}
}

func TestParseRule_ParsedRulesEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		value     any
		want      bool
	}{
		{"min accepts at limit", "min:10", 10, true},
		{"min rejects below limit", "min:10", 9.5, false},
		{"max rejects above limit", "max:500", 501, false},
		{"minlen counts string length", "minlen:3", "abc", true},
		{"maxlen rejects long strings", "maxlen:3", "abcd", false},
		{"oneof matches option", "oneof:draft,published", "draft", true},
		{"oneof trims options before matching", "oneof:a, b", "b", true},
		{"oneof skips empty options", "oneof:a,,b", "b", true},
		{"pattern anchors apply", "pattern:^[a-z]+$", "abc", true},
		{"pattern rejects mismatch", "pattern:^[a-z]+$", "ABC", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.directive)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rule.Evaluate(tt.value); got != tt.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name        string
		list        string
		want        []string
		wantErr     bool
		errContains string
	}{
		{
			name: "single directive",
			list: "required",
			want: []string{"required"},
		},
		{
			name: "two directives",
			list: "required,min:1",
			want: []string{"required", "min:1"},
		},
		{
			name: "whitespace around directives",
			list: " required , positive ",
			want: []string{"required", "positive"},
		},
		{
			name: "empty segments skipped",
			list: "required,,positive,",
			want: []string{"required", "positive"},
		},
		{
			name: "empty list",
			list: "",
			want: nil,
		},
		{
			name: "oneof keeps its commas",
			list: "oneof:draft,published,archived",
			want: []string{"oneof:draft,published,archived"},
		},
		{
			name: "oneof followed by directive",
			list: "oneof:draft,published,required",
			want: []string{"oneof:draft,published", "required"},
		},
		{
			name: "oneof between directives",
			list: "required,oneof:a,b,min:1",
			want: []string{"required", "oneof:a,b", "min:1"},
		},
		{
			name: "pattern parameter with comma",
			list: `pattern:^\d+,\d+$,required`,
			want: []string{`pattern:^\d+,\d+$`, "required"},
		},
		{
			name:        "error propagates",
			list:        "required,banana",
			wantErr:     true,
			errContains: "unknown rule",
		},
		{
			name:        "invalid parameter propagates",
			list:        "min:abc,required",
			wantErr:     true,
			errContains: "invalid min parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseRules(tt.list)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := make([]string, 0, len(rules))
			for _, r := range rules {
				got = append(got, r.String())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rules %v, got %d rules %v", len(tt.want), tt.want, len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("rule %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name        string
		tag         string
		wantName    string
		wantRules   []string
		wantErr     bool
		errContains string
	}{
		{
			name:      "name override with rules",
			tag:       "name:price,positive",
			wantName:  "price",
			wantRules: []string{"positive"},
		},
		{
			name:      "rules only",
			tag:       "required,minlen:1",
			wantRules: []string{"required", "minlen:1"},
		},
		{
			name:     "name only",
			tag:      "name:sku",
			wantName: "sku",
		},
		{
			name: "empty tag",
			tag:  "",
		},
		{
			name:      "name after oneof",
			tag:       "oneof:a,b,name:x",
			wantName:  "x",
			wantRules: []string{"oneof:a,b"},
		},
		{
			name:        "bad rule",
			tag:         "name:x,banana",
			wantErr:     true,
			errContains: "unknown rule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseTag(tt.tag)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if spec.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, spec.Name)
			}
			if len(spec.Rules) != len(tt.wantRules) {
				t.Fatalf("expected %d rules, got %d", len(tt.wantRules), len(spec.Rules))
			}
			for i := range tt.wantRules {
				if got := spec.Rules[i].String(); got != tt.wantRules[i] {
					t.Errorf("rule %d: expected %q, got %q", i, tt.wantRules[i], got)
				}
			}
		})
	}
}

func TestSplitDirectives(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want []string
	}{
		{
			name: "empty",
			tag:  "",
			want: nil,
		},
		{
			name: "single",
			tag:  "required",
			want: []string{"required"},
		},
		{
			name: "plain list",
			tag:  "required,positive",
			want: []string{"required", "positive"},
		},
		{
			name: "trailing comma",
			tag:  "required,",
			want: []string{"required"},
		},
		{
			name: "empty segment preserved",
			tag:  "required,,positive",
			want: []string{"required", "", "positive"},
		},
		{
			name: "oneof swallows commas",
			tag:  "oneof:a,b,c",
			want: []string{"oneof:a,b,c"},
		},
		{
			name: "oneof ends at known directive",
			tag:  "oneof:a,b,required",
			want: []string{"oneof:a,b", "required"},
		},
		{
			name: "oneof ends at name override",
			tag:  "oneof:a,b,name:x",
			want: []string{"oneof:a,b", "name:x"},
		},
		{
			name: "pattern swallows commas",
			tag:  `pattern:^\d{1,3}$`,
			want: []string{`pattern:^\d{1,3}$`},
		},
		{
			name: "pattern ends at known directive",
			tag:  `pattern:^\d+,\d+$,maxlen:9`,
			want: []string{`pattern:^\d+,\d+$`, "maxlen:9"},
		},
		{
			name: "directive before greedy directive",
			tag:  "required,oneof:a,b",
			want: []string{"required", "oneof:a,b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitDirectives(tt.tag)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestStartsWithDirective(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"required", true},
		{"positive", true},
		{"uuid", true},
		{"min:1", true},
		{"max:5", true},
		{"minlen:2", true},
		{"maxlen:9", true},
		{"oneof:a,b", true},
		{"pattern:^x$", true},
		{"name:price", true},
		{" required", true},
		{"", false},
		{"banana", false},
		{"minimum:1", false},
		{"b,c,required", false},
	}

	for _, tt := range tests {
		if got := startsWithDirective(tt.s); got != tt.want {
			t.Errorf("startsWithDirective(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
