// Package validation checks request payloads and cleans user supplied text.
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"devconnect/internal/models"
)

var (
	validate *validator.Validate
	strict   = bluemonday.StrictPolicy()
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients can map errors back to inputs.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("date", validateDate)
	_ = validate.RegisterValidation("notblank", validateNotBlank)
}

// ErrInvalidDate is returned by ParseDate for unsupported layouts.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// ParseDate accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

func validateDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := ParseDate(value)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates s against its `validate` tags. It returns nil or a
// VALIDATION_ERROR AppError carrying one entry per rejected field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return models.NewInternalError(fmt.Errorf("validate %T: %w", s, err))
	}

	fields := make([]models.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, models.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return models.NewValidationError("Validation failed", fields...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Field builds a single field validation error outside of struct tags.
func Field(field, msg string) error {
	return models.NewValidationError("Validation failed", models.FieldError{Field: field, Message: msg})
}

// Sanitize strips all markup from user text and trims surrounding space.
// The policy entity-encodes what it keeps; that is undone so plain text
// such as "Tom & Jerry" is stored as written.
func Sanitize(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
