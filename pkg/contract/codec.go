// Package contract validates every payload that crosses the boundary between
// the dashboard and its backend.
//
// Each schema is registered under a name ("search.response", "file",
// "state.snapshot", ...) together with the Go type it decodes into. Decoding
// rejects malformed data with a *SchemaViolation before any field reaches the
// caller; encoding refuses to produce a payload its own schema would reject.
//
// A decode runs four stages, stopping at the first failure:
//
//  1. JSON syntax, with numbers kept exact.
//  2. Shape: presence, primitive types, closed enums, timestamps.
//  3. Values: validator tags on the typed struct (gte, required, cron, ...).
//  4. Cross-field checks registered with the schema (e.g. graph edges).
package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
)

type schema struct {
	name      string
	shape     Shape
	typ       reflect.Type
	unmarshal func(raw []byte) (any, error)
	check     func(v any) *SchemaViolation
}

var registry = make(map[string]*schema)

// define registers a schema decoding into T.
func define[T any](name string, shape Shape, checks ...func(T) *SchemaViolation) {
	if _, exists := registry[name]; exists {
		panic("contract: schema registered twice: " + name)
	}
	registry[name] = &schema{
		name:  name,
		shape: shape,
		typ:   reflect.TypeFor[T](),
		unmarshal: func(raw []byte) (any, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
		check: func(v any) *SchemaViolation {
			typed := v.(T)
			for _, c := range checks {
				if err := c(typed); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Names lists every registered schema, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of the named schema's shape.
func Describe(name string) (string, error) {
	s, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return s.shape.String(), nil
}

// Decode validates raw against the named schema and returns the typed value
// (not a pointer). Any failure is a *SchemaViolation.
func Decode(name string, raw []byte) (any, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	tree, err := parseTree(raw)
	if err != nil {
		return nil, s.fail(violation("$", "JSON document", err.Error()))
	}
	if v := s.shape.Check(tree, "$"); v != nil {
		return nil, s.fail(v)
	}

	value, err := s.unmarshal(raw)
	if err != nil {
		return nil, s.fail(violation("$", s.typ.String(), err.Error()))
	}
	if v := validateValue(value); v != nil {
		return nil, s.fail(v)
	}
	if v := s.check(value); v != nil {
		return nil, s.fail(v)
	}
	return value, nil
}

// DecodeInto is the typed form of Decode.
func DecodeInto[T any](name string, raw []byte) (T, error) {
	var zero T
	s, ok := registry[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	if want := reflect.TypeFor[T](); s.typ != want {
		return zero, fmt.Errorf("contract: schema %s decodes %s, not %s", name, s.typ, want)
	}
	v, err := Decode(name, raw)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(name string, r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return Decode(name, raw)
}

// Encode validates value against the named schema and returns its JSON form.
// value must be of the schema's type or a pointer to it.
func Encode(name string, value any) ([]byte, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type() == s.typ {
		value = rv.Elem().Interface()
	} else if value == nil || rv.Type() != s.typ {
		return nil, s.fail(violation("$", s.typ.String(), fmt.Sprintf("%T", value)))
	}

	if v := validateValue(value); v != nil {
		return nil, s.fail(v)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	tree, err := parseTree(raw)
	if err != nil {
		return nil, fmt.Errorf("reparse %s: %w", name, err)
	}
	if v := s.shape.Check(tree, "$"); v != nil {
		return nil, s.fail(v)
	}
	if v := s.check(value); v != nil {
		return nil, s.fail(v)
	}
	return raw, nil
}

// Validate checks an already-typed value without producing bytes.
func Validate(name string, value any) error {
	_, err := Encode(name, value)
	return err
}

func (s *schema) fail(v *SchemaViolation) *SchemaViolation {
	v.Schema = s.name
	return v
}

func parseTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return tree, nil
}

// joinPath turns "results[0].score" into "$.results[0].score".
func joinPath(parts ...string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "[") {
			b.WriteString(".")
		}
		b.WriteString(p)
	}
	return b.String()
}
