// Package validation wraps a shared go-playground validator and turns its
// errors into short messages suitable for API responses.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field, e.Param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, '_', '.' and '-'", e.Field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field, e.Tag)
	}
}

// Errors is returned by Struct when one or more rules fail.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: strings.ToLower(fe.Field()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
