package contract

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Shape describes the structure a decoded JSON value must have.
//
// Values are the generic tree produced by encoding/json with UseNumber:
// nil, bool, json.Number, string, []any and map[string]any.
type Shape interface {
	// Check returns nil when v conforms, or the first violation found.
	Check(v any, path string) *SchemaViolation
	String() string
}

// --- Primitives ---

type stringShape struct{ nonEmpty bool }

// String accepts any JSON string.
func String() Shape { return stringShape{} }

// ID accepts a non-empty JSON string.
func ID() Shape { return stringShape{nonEmpty: true} }

func (s stringShape) Check(v any, path string) *SchemaViolation {
	str, ok := v.(string)
	if !ok {
		return violation(path, s.String(), kindOf(v))
	}
	if s.nonEmpty && str == "" {
		return violation(path, s.String(), `""`)
	}
	return nil
}

func (s stringShape) String() string {
	if s.nonEmpty {
		return "non-empty string"
	}
	return "string"
}

type numberShape struct{}

// Number accepts any JSON number.
func Number() Shape { return numberShape{} }

func (numberShape) Check(v any, path string) *SchemaViolation {
	n, ok := v.(json.Number)
	if !ok {
		return violation(path, "number", kindOf(v))
	}
	if _, err := n.Float64(); err != nil {
		return violation(path, "number", n.String())
	}
	return nil
}

func (numberShape) String() string { return "number" }

type integerShape struct{}

// Integer accepts JSON numbers without fraction or exponent.
func Integer() Shape { return integerShape{} }

func (integerShape) Check(v any, path string) *SchemaViolation {
	n, ok := v.(json.Number)
	if !ok {
		return violation(path, "integer", kindOf(v))
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return violation(path, "integer", n.String())
	}
	return nil
}

func (integerShape) String() string { return "integer" }

type boolShape struct{}

// Bool accepts true or false.
func Bool() Shape { return boolShape{} }

func (boolShape) Check(v any, path string) *SchemaViolation {
	if _, ok := v.(bool); !ok {
		return violation(path, "boolean", kindOf(v))
	}
	return nil
}

func (boolShape) String() string { return "boolean" }

type timestampShape struct{}

// Timestamp accepts an RFC 3339 string, the encoding of time.Time.
func Timestamp() Shape { return timestampShape{} }

func (timestampShape) Check(v any, path string) *SchemaViolation {
	s, ok := v.(string)
	if !ok {
		return violation(path, "RFC 3339 timestamp", kindOf(v))
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return violation(path, "RFC 3339 timestamp", strconv.Quote(s))
	}
	return nil
}

func (timestampShape) String() string { return "RFC 3339 timestamp" }

type enumShape struct{ values []string }

// Enum accepts exactly one of values. The set is closed.
func Enum(values ...string) Shape { return enumShape{values: values} }

func (e enumShape) Check(v any, path string) *SchemaViolation {
	s, ok := v.(string)
	if !ok {
		return violation(path, e.String(), kindOf(v))
	}
	if !slices.Contains(e.values, s) {
		return violation(path, e.String(), strconv.Quote(s))
	}
	return nil
}

func (e enumShape) String() string {
	return "one of [" + strings.Join(e.values, " ") + "]"
}

// --- Containers ---

type arrayShape struct{ elem Shape }

// Array accepts a JSON array whose elements all match elem.
// JSON null is read as an empty list, which is how Go encodes a nil slice.
func Array(elem Shape) Shape { return arrayShape{elem: elem} }

func (a arrayShape) Check(v any, path string) *SchemaViolation {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return violation(path, a.String(), kindOf(v))
	}
	for i, item := range items {
		if err := a.elem.Check(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (a arrayShape) String() string { return "array of " + a.elem.String() }

type mapShape struct{ elem Shape }

// Map accepts a JSON object with arbitrary keys whose values all match elem.
func Map(elem Shape) Shape { return mapShape{elem: elem} }

func (m mapShape) Check(v any, path string) *SchemaViolation {
	obj, ok := v.(map[string]any)
	if !ok {
		return violation(path, m.String(), kindOf(v))
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := m.elem.Check(obj[k], path+"."+k); err != nil {
			return err
		}
	}
	return nil
}

func (m mapShape) String() string { return "map of " + m.elem.String() }

// Field is a named member of an Object shape.
type Field struct {
	Name     string
	Shape    Shape
	Optional bool
}

// Req declares a required field.
func Req(name string, s Shape) Field { return Field{Name: name, Shape: s} }

// Opt declares an optional field. Absent and null are both accepted.
func Opt(name string, s Shape) Field { return Field{Name: name, Shape: s, Optional: true} }

type objectShape struct{ fields []Field }

// Object accepts a JSON object carrying the declared fields.
// Keys that are not declared are ignored.
func Object(fields ...Field) Shape { return objectShape{fields: fields} }

func (o objectShape) Check(v any, path string) *SchemaViolation {
	obj, ok := v.(map[string]any)
	if !ok {
		return violation(path, "object", kindOf(v))
	}
	for _, f := range o.fields {
		fieldPath := path + "." + f.Name
		val, present := obj[f.Name]
		if !present || val == nil {
			if f.Optional {
				continue
			}
			if present && isArray(f.Shape) {
				continue
			}
			return violation(fieldPath, f.Shape.String(), "missing")
		}
		if err := f.Shape.Check(val, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (o objectShape) String() string {
	names := make([]string, len(o.fields))
	for i, f := range o.fields {
		names[i] = f.Name
		if f.Optional {
			names[i] += "?"
		}
	}
	return "object {" + strings.Join(names, ", ") + "}"
}

func isArray(s Shape) bool {
	_, ok := s.(arrayShape)
	return ok
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
