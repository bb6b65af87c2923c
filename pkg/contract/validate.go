package contract

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var values = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names so violation paths match the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		return ValidSchedule(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidSchedule reports whether spec is a standard five-field cron expression
// or a descriptor such as "@hourly" or "@every 15m".
func ValidSchedule(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}

// validateValue runs the validator tags of a typed struct.
func validateValue(value any) *SchemaViolation {
	if reflect.Indirect(reflect.ValueOf(value)).Kind() != reflect.Struct {
		return nil
	}
	err := values.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return violation("$", "valid value", err.Error())
	}

	fe := fieldErrs[0]
	expected := fe.Tag()
	if fe.Param() != "" {
		expected += "=" + fe.Param()
	}
	return violation(namespacePath(fe.Namespace()), expected, fmt.Sprintf("%v", fe.Value()))
}

// namespacePath turns "SearchRequest.filters.query" into "$.filters.query".
func namespacePath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return "$"
	}
	return joinPath(strings.Split(rest, ".")...)
}
