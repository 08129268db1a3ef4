package fieldvet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownRule is returned when a directive names no known rule kind.
var ErrUnknownRule = errors.New("fieldvet: unknown rule")

// TagSpec holds the parsed directives from a struct field's `vet` tag.
type TagSpec struct {
	Name  string // Record field name override (name:price)
	Rules []Rule // Rules in declaration order
}

// ParseRule parses a single directive into a Rule.
// Directive format: "required", "positive", "uuid", "min:N", "max:N",
// "minlen:N", "maxlen:N", "oneof:a,b,c", "pattern:RE".
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rule{}, fmt.Errorf("empty rule directive")
	}

	// Split by colon to separate directive name from parameter
	parts := strings.SplitN(s, ":", 2)
	name := strings.TrimSpace(parts[0])
	var value string
	if len(parts) > 1 {
		value = parts[1] // Don't trim parameter - leading spaces may be intentional
	}

	switch name {
	case "required":
		if len(parts) > 1 {
			return Rule{}, fmt.Errorf("rule required takes no parameter")
		}
		return Required(), nil
	case "positive":
		if len(parts) > 1 {
			return Rule{}, fmt.Errorf("rule positive takes no parameter")
		}
		return PositiveNumber(), nil
	case "uuid":
		if len(parts) > 1 {
			return Rule{}, fmt.Errorf("rule uuid takes no parameter")
		}
		return ValidUUID(), nil
	case "min":
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid min parameter %q: %w", value, err)
		}
		return Min(limit), nil
	case "max":
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid max parameter %q: %w", value, err)
		}
		return Max(limit), nil
	case "minlen":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid minlen parameter %q: %w", value, err)
		}
		return MinLen(n), nil
	case "maxlen":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid maxlen parameter %q: %w", value, err)
		}
		return MaxLen(n), nil
	case "oneof":
		var options []string
		for _, opt := range strings.Split(value, ",") {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}
			options = append(options, opt)
		}
		if len(options) == 0 {
			return Rule{}, fmt.Errorf("oneof requires at least one option")
		}
		return OneOf(options...), nil
	case "pattern":
		re, err := regexp.Compile(value)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid pattern parameter %q: %w", value, err)
		}
		return Pattern(re), nil
	case "custom":
		return Rule{}, fmt.Errorf("custom rules cannot be parsed; construct them with Custom")
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}

// ParseRules parses a comma-separated directive list (e.g., "required,min:1").
// Commas inside a oneof or pattern parameter belong to that directive.
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule

	for _, directive := range splitDirectives(s) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		rule, err := ParseRule(directive)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// ParseTag parses a `vet` struct tag into a TagSpec. Tags combine an
// optional name override with rule directives (e.g., "name:price,positive").
func ParseTag(tag string) (TagSpec, error) {
	spec := TagSpec{}

	for _, directive := range splitDirectives(tag) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		if strings.HasPrefix(directive, "name:") {
			spec.Name = directive[len("name:"):]
			continue
		}

		rule, err := ParseRule(directive)
		if err != nil {
			return TagSpec{}, err
		}
		spec.Rules = append(spec.Rules, rule)
	}

	return spec, nil
}

// tagName extracts only the name override and skip marker from a `vet` tag,
// without validating rule directives.
func tagName(tag string) (name string, skip bool) {
	if tag == "-" {
		return "", true
	}

	for _, directive := range splitDirectives(tag) {
		directive = strings.TrimSpace(directive)
		if strings.HasPrefix(directive, "name:") {
			name = directive[len("name:"):]
		}
	}

	return name, false
}

// greedyDirectives take a parameter that may itself contain commas.
var greedyDirectives = []string{"oneof:", "pattern:"}

// splitDirectives splits a directive string on commas, handling the special
// case where oneof and pattern parameters contain commas themselves.
func splitDirectives(tag string) []string {
	var directives []string
	var current strings.Builder
	greedy := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		// Check if we're entering a greedy directive
		if !greedy {
			entered := false
			for _, g := range greedyDirectives {
				if i+len(g) <= len(tag) && tag[i:i+len(g)] == g {
					greedy = true
					current.WriteString(g)
					i += len(g) - 1
					entered = true
					break
				}
			}
			if entered {
				continue
			}
		}

		if ch == ',' {
			if greedy {
				// A comma ends the greedy parameter only when a known
				// directive follows it
				remaining := tag[i+1:]
				if startsWithDirective(remaining) {
					greedy = false
					directives = append(directives, current.String())
					current.Reset()
					continue
				}
				current.WriteByte(ch)
			} else {
				directives = append(directives, current.String())
				current.Reset()
			}
		} else {
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	directives := []string{"name:", "min:", "max:", "minlen:", "maxlen:", "oneof:", "pattern:", "required", "positive", "uuid"}
	for _, d := range directives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}
