package contract

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrSchemaViolation matches every *SchemaViolation via errors.Is.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrUnknownSchema is returned when a schema name is not registered.
	ErrUnknownSchema = errors.New("unknown schema")
)

// SchemaViolation reports a payload that does not match its schema.
// Path is a JSON path rooted at "$" (e.g. "$.results[0].score").
type SchemaViolation struct {
	Schema   string
	Path     string
	Expected string
	Got      string
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation in %s at %s: expected %s, got %s", v.Schema, v.Path, v.Expected, v.Got)
}

// Is lets errors.Is(err, ErrSchemaViolation) match any violation.
func (v *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

func violation(path, expected, got string) *SchemaViolation {
	return &SchemaViolation{Path: path, Expected: expected, Got: got}
}

// AsViolation extracts the violation from err, if any.
func AsViolation(err error) (*SchemaViolation, bool) {
	var v *SchemaViolation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
