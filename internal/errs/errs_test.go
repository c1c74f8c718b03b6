package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "PROGRAM_ID_MISMATCH"
	fields := []FieldError{{Field: "id", Error: "must match the path id"}}

	err := NewBadRequestError("Validation failed", true, &code, fields, nil)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, code, err.Code)
	assert.True(t, err.Override)
	assert.Equal(t, fields, err.Errors)
}

func TestNewEntityNotFoundError(t *testing.T) {
	err := NewEntityNotFoundError("Institutional Program", 7)

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "Institutional Program with id 7 not found", err.Error())
}

func TestHTTPError_IsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("loading program: %w", NewNotFoundError("missing", false, nil))

	assert.True(t, errors.Is(wrapped, NewInternalServerError()))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHTTPError_WithMessageCopies(t *testing.T) {
	base := NewNotFoundError("Resource not found", false, nil)
	custom := base.WithMessage("Mentor not found")

	assert.Equal(t, "Resource not found", base.Message)
	assert.Equal(t, "Mentor not found", custom.Message)
	assert.Equal(t, base.Status, custom.Status)
}

func TestConfigurationError(t *testing.T) {
	assert.Equal(t, "configuration error: programService should not be null",
		NewConfigurationError("programService", "").Error())
	assert.Equal(t, "configuration error: uploadDirectory should not be empty",
		NewConfigurationError("uploadDirectory", "should not be empty").Error())
}
