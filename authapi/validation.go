package authapi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
)

// NewValidator returns a validator reporting fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks req against its struct tags and returns a
// *errors.ValidationError describing every failing field.
func Validate(v *validator.Validate, req any) error {
	if err := v.Struct(req); err != nil {
		return apperrors.NewValidation(FormatValidationErrors(err))
	}
	return nil
}

// FormatValidationErrors turns validator errors into a single user-facing sentence.
func FormatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldError.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fieldError.Field()))
		case "min":
			if fieldError.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters long", fieldError.Field(), fieldError.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param()))
			}
		case "max":
			if fieldError.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters long", fieldError.Field(), fieldError.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", fieldError.Field(), fieldError.Param()))
			}
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", fieldError.Field()))
		case "gtfield":
			messages = append(messages, fmt.Sprintf("%s must be after %s", fieldError.Field(), lowerFirst(fieldError.Param())))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldError.Field()))
		}
	}
	return strings.Join(messages, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
