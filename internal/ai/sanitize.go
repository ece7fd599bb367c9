// README: Pure string cleanup and decoding of model output.
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// SanitizeResponse strips markdown fences, a byte-order mark and surrounding whitespace.
func SanitizeResponse(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// RepairJSON fixes the mistakes models commonly make: text around the object,
// single-quoted strings, escaped apostrophes, raw control characters inside
// strings, and trailing commas. Input that is already valid JSON comes back
// unchanged apart from the slicing to the outermost braces.
func RepairJSON(s string) string {
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}

	var (
		b        strings.Builder
		inString bool
		quote    byte
		escaped  bool
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				b.WriteByte(c)
				escaped = false
				continue
			}
			switch {
			case c == '\\':
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				b.WriteByte(c)
				escaped = true
			case c == quote:
				b.WriteByte('"')
				inString = false
			case c == '"':
				b.WriteString(`\"`)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				fmt.Fprintf(&b, `\u%04x`, c)
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			quote = c
			b.WriteByte('"')
		case ',':
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

// DecodeTripPlan decodes a model response. It makes exactly two attempts: the
// sanitized text as-is, then the repaired text.
func DecodeTripPlan(raw string) (*AITripPlan, error) {
	clean := SanitizeResponse(raw)

	var p AITripPlan
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		p = AITripPlan{}
		if err := json.Unmarshal([]byte(RepairJSON(clean)), &p); err != nil {
			return nil, invalidJSON(err)
		}
	}
	if err := validateTripPlan(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func invalidJSON(err error) *InvalidJSONError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &InvalidJSONError{
			Path:   typeErr.Field,
			Detail: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &InvalidJSONError{
			Path:   fmt.Sprintf("offset %d", syntaxErr.Offset),
			Detail: syntaxErr.Error(),
		}
	}
	return &InvalidJSONError{Detail: err.Error()}
}

func validateTripPlan(p *AITripPlan) error {
	if len(p.Days) == 0 {
		return &InvalidJSONError{Path: "days", Detail: "no days"}
	}
	for i, d := range p.Days {
		for j, a := range d.Activities {
			if strings.TrimSpace(a.Title) == "" {
				return &InvalidJSONError{
					Path:   fmt.Sprintf("days[%d].activities[%d].title", i, j),
					Detail: "missing title",
				}
			}
		}
	}
	return nil
}
