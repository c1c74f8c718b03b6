// Package errs defines the error shapes returned to API clients.
//
// Every error that leaves a handler ends up in the global error handler, which
// renders one of these types as JSON:
//   - HTTPError for request-level failures (400/404/500 and friends).
//   - FieldError for per-field validation details inside an HTTPError.
//
// ConfigurationError is the odd one out: it is never rendered, it stops the
// process before the server starts listening.
package errs

import (
	"fmt"
	"strings"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "programname", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect to Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type rendered by the global error handler.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as-is.
//   - Errors: per-field validation errors.
//   - Action: optional client instruction.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError, regardless of its status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of the error with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// ConfigurationError reports a collaborator or setting that is missing at
// startup. It is returned by the startup self-checks and must abort the
// process before any request is served.
type ConfigurationError struct {
	// Name is the name of the missing or invalid dependency/setting.
	Name string

	// Reason is an optional human explanation. Defaults to "should not be null".
	Reason string
}

func (e *ConfigurationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "should not be null"
	}
	return fmt.Sprintf("configuration error: %s %s", e.Name, reason)
}

// NewConfigurationError creates a ConfigurationError for the named dependency.
func NewConfigurationError(name, reason string) *ConfigurationError {
	return &ConfigurationError{Name: name, Reason: reason}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
