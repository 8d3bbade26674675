package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance lazily builds the shared validator. validator.Validate
// caches struct metadata and is safe for concurrent use.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report json names so messages match the persisted layout.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("emotion", func(fl validator.FieldLevel) bool {
			return Emotion(fl.Field().String()).Valid()
		})

		validate = v
	})
	return validate
}

// Validate checks v against its struct tags and converts the first failure
// into a ValidationError.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError(CodeInvalidField, "%v", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return NewFieldError(CodeMissingField, fe.Field(), "%s is required", fe.Field())
	case "min", "max":
		return NewFieldError(CodeOutOfRange, fe.Field(), "%s must be between %d and %d, got %v",
			fe.Field(), MinStress, MaxStress, fe.Value())
	case "emotion":
		return NewFieldError(CodeOutOfRange, fe.Field(), "unknown emotion %q", fe.Value())
	default:
		return NewFieldError(CodeInvalidField, fe.Field(), "%s failed %q check", fe.Field(), fe.Tag())
	}
}
