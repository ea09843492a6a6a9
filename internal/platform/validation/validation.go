// Package validation configures request schema validation shared by the HTTP handlers.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// New returns a validator that reports JSON field names and knows the
// catalog enumerations (program, format, campus, language).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "program", oneOf(shared.Programs))
	mustRegister(v, "format", oneOf(shared.Formats))
	mustRegister(v, "campus", oneOf(shared.Campuses))
	mustRegister(v, "language", oneOf(shared.Languages))
	return v
}

// Struct validates s and converts failures into a *shared.ValidationError.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &shared.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid id"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	case "program":
		return "must be one of: " + strings.Join(shared.Programs, ", ")
	case "format":
		return "must be one of: " + strings.Join(shared.Formats, ", ")
	case "campus":
		return "must be one of: " + strings.Join(shared.Campuses, ", ")
	case "language":
		return "must be one of: " + strings.Join(shared.Languages, ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return shared.Contains(allowed, field.String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}
