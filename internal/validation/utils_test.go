package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idRequest struct {
	ID   int64  `param:"id" validate:"gt=0"`
	Name string `query:"name" validate:"omitempty,max=5"`
}

func (r *idRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "id", Message: "must match the path id"}}
}

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	return httpErr
}

func TestBindAndValidate_OK(t *testing.T) {
	c, _ := newContext("/institutionalPrograms/5?name=ok")
	c.SetParamNames("id")
	c.SetParamValues("5")

	req := &idRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, int64(5), req.ID)
	assert.Equal(t, "ok", req.Name)
}

func TestBindAndValidate_NonPositiveID(t *testing.T) {
	c, _ := newContext("/institutionalPrograms/0")
	c.SetParamNames("id")
	c.SetParamValues("0")

	httpErr := requireHTTPError(t, BindAndValidate(c, &idRequest{}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "id", httpErr.Errors[0].Field)
	assert.Equal(t, "must be greater than 0", httpErr.Errors[0].Error)
}

func TestBindAndValidate_UnparsableID(t *testing.T) {
	c, _ := newContext("/institutionalPrograms/abc")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	httpErr := requireHTTPError(t, BindAndValidate(c, &idRequest{}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestCheck_CustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, Check(&customRequest{}))

	assert.True(t, httpErr.Override)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "must match the path id"}}, httpErr.Errors)
}

func TestCheck_MaxLength(t *testing.T) {
	httpErr := requireHTTPError(t, Check(&idRequest{ID: 1, Name: "too long"}))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "must not exceed 5 characters", httpErr.Errors[0].Error)
}
