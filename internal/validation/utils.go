// Package validation binds and validates request data.
//
// Struct tags are enforced with go-playground/validator; checks that tags
// cannot express (id consistency, date ordering, paging bounds) are returned
// as CustomValidationErrors. Both are turned into a 400 errs.HTTPError with
// field-level details.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Validatable is implemented by request payloads that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single validation issue that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// Struct runs the struct-tag rules on v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds path, query and body data into payload and validates it.
// Failures come back as a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	return Check(payload)
}

// Check validates payload and converts failures into a 400 *errs.HTTPError.
func Check(payload Validatable) error {
	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		if fieldErrors == nil {
			return errs.ValidationError(err)
		}
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}
	return nil
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
		return http.StatusText(echoErr.Code)
	}
	return err.Error()
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "gte":
			msg = fmt.Sprintf("must be at least %s", err.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "url":
			msg = "must be a valid URL"

		case "email":
			msg = "must be a valid email address"

		case "dive":
			msg = "some items are invalid"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
