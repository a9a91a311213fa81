// Package validate checks raw request documents against per-entity field
// tables before anything reaches the store.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed, in schema order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var (
	// ErrNotObject is returned by DecodeObject when the body is valid JSON but not an object.
	ErrNotObject = errors.New("body must be a JSON object")
	// ErrTrailingData is returned by DecodeObject when more input follows the object.
	ErrTrailingData = errors.New("unexpected data after JSON object")
)

// DecodeObject reads a single JSON object from r. Numbers are kept as
// json.Number so integer fields can be checked without float rounding.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	switch _, err := dec.Token(); {
	case err == nil:
		return nil, ErrTrailingData
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: %w", ErrTrailingData, err)
	}
	return obj, nil
}

type kind int

const (
	kindString kind = iota
	kindInt
)

// check inspects an already type-coerced value and returns a reason on failure.
type check func(v any) string

type field struct {
	name     string
	kind     kind
	required bool
	nullable bool
	def      any
	checks   []check
}

// apply runs schema against raw and returns the cleaned values keyed by field
// name. Absent nullable fields map to nil. Every field is checked; each one
// reports its first failure.
func apply(schema []field, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(schema))
	var failed []FieldError

	for _, f := range schema {
		v, present := raw[f.name]
		if !present {
			switch {
			case f.required:
				failed = append(failed, FieldError{Field: f.name, Message: "field required"})
			case f.def != nil:
				out[f.name] = f.def
			default:
				out[f.name] = nil
			}
			continue
		}
		if v == nil {
			if f.nullable {
				out[f.name] = nil
				continue
			}
			failed = append(failed, FieldError{Field: f.name, Message: typeMessage(f.kind)})
			continue
		}

		coerced, ok := coerce(f.kind, v)
		if !ok {
			failed = append(failed, FieldError{Field: f.name, Message: typeMessage(f.kind)})
			continue
		}

		if msg := runChecks(f.checks, coerced); msg != "" {
			failed = append(failed, FieldError{Field: f.name, Message: msg})
			continue
		}
		out[f.name] = coerced
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}
	return out, nil
}

func runChecks(checks []check, v any) string {
	for _, c := range checks {
		if msg := c(v); msg != "" {
			return msg
		}
	}
	return ""
}

func typeMessage(k kind) string {
	if k == kindInt {
		return "must be an integer"
	}
	return "must be a string"
}

func coerce(k kind, v any) (any, bool) {
	switch k {
	case kindString:
		s, ok := v.(string)
		return s, ok
	case kindInt:
		return ToInt(v)
	}
	return nil, false
}

// ToInt converts a decoded JSON value to int. Integral floats and numeric
// strings are accepted; fractional values are not.
func ToInt(v any) (int, bool) {
	return toInt(v, false)
}

// TruncInt is ToInt for stored data: fractional numbers lose their fraction
// (4.5 becomes 4). Strings must still hold an integer.
func TruncInt(v any) (int, bool) {
	return toInt(v, true)
}

func toInt(v any, truncate bool) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f, truncate)
	case float64:
		return floatToInt(n, truncate)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// floatToInt rejects values outside the int64 range, whose conversion is
// implementation-defined.
func floatToInt(f float64, truncate bool) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	t := math.Trunc(f)
	if t != f && !truncate {
		return 0, false
	}
	return int(t), true
}

func lengthBetween(minLen, maxLen int) check {
	return func(v any) string {
		n := utf8.RuneCountInString(v.(string))
		if n < minLen {
			return fmt.Sprintf("must be at least %d characters", minLen)
		}
		if n > maxLen {
			return fmt.Sprintf("must be at most %d characters", maxLen)
		}
		return ""
	}
}

func maxLength(maxLen int) check {
	return func(v any) string {
		if utf8.RuneCountInString(v.(string)) > maxLen {
			return fmt.Sprintf("must be at most %d characters", maxLen)
		}
		return ""
	}
}

func oneOf(allowed ...string) check {
	return func(v any) string {
		s := v.(string)
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return "must be one of " + strings.Join(allowed, ", ")
	}
}

// segments only counts sep-delimited parts; it does not check their content.
func segments(sep string, n int, format string) check {
	return func(v any) string {
		if len(strings.Split(v.(string), sep)) != n {
			return "must be in format " + format
		}
		return ""
	}
}

func intBetween(lo, hi int) check {
	return func(v any) string {
		i := v.(int)
		if i < lo || i > hi {
			return fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return ""
	}
}

func str(vals map[string]any, name string) string {
	s, _ := vals[name].(string)
	return s
}

func optStr(vals map[string]any, name string) *string {
	s, ok := vals[name].(string)
	if !ok {
		return nil
	}
	return &s
}
