package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/deppfellow/mentorme/internal/handler"
	"github.com/deppfellow/mentorme/internal/lib/upload"
	"github.com/deppfellow/mentorme/internal/middleware"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPrograms struct {
	mu       sync.Mutex
	programs map[int64]model.Program
	nextID   int64
}

func (m *memPrograms) Get(_ context.Context, id int64) (*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, errs.NewEntityNotFoundError("Institutional Program", id)
	}
	return &p, nil
}

func (m *memPrograms) Create(_ context.Context, p *model.Program) (*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.programs[p.ID] = *p
	return p, nil
}

func (m *memPrograms) Update(_ context.Context, id int64, p *model.Program) (*model.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programs[id]; !ok {
		return nil, errs.NewEntityNotFoundError("Institutional Program", id)
	}
	p.ID = id
	m.programs[id] = *p
	return p, nil
}

func (m *memPrograms) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programs[id]; !ok {
		return errs.NewEntityNotFoundError("Institutional Program", id)
	}
	delete(m.programs, id)
	return nil
}

func (m *memPrograms) Search(_ context.Context, _ model.ProgramSearchCriteria, paging model.Paging) (*model.SearchResult[model.Program], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]model.Program, 0, len(m.programs))
	for _, p := range m.programs {
		all = append(all, p)
	}
	return model.NewSearchResult(all, int64(len(all)), paging), nil
}

type noAssociations struct{}

func (noAssociations) GetProgramMentors(context.Context, int64) ([]model.Mentor, error) {
	return nil, nil
}

func (noAssociations) GetProgramMentees(context.Context, int64) ([]model.Mentee, error) {
	return nil, nil
}

type directTx struct{}

func (directTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newProgramRouter(t *testing.T) *echo.Echo {
	t.Helper()

	p := handler.NewProgramHandler(
		nil,
		&memPrograms{programs: map[int64]model.Program{}},
		noAssociations{},
		noAssociations{},
		directTx{},
		upload.NewLocalUploader(t.TempDir(), 0),
		nil,
	)
	require.NoError(t, p.CheckConfiguration())

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(&server.Server{}).GlobalErrorHandler
	registerProgramRoutes(e.Group("/institutionalPrograms"), p, nil)
	return e
}

func programForm(t *testing.T, target, name string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("programName", name))
	require.NoError(t, w.WriteField("institutionId", "1"))
	require.NoError(t, w.WriteField("startDate", "2025-09-01"))
	require.NoError(t, w.WriteField("endDate", "2025-12-01"))
	part, err := w.CreateFormFile("files", "brief.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("brief"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestRegisterProgramRoutes(t *testing.T) {
	e := newProgramRouter(t)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(programForm(t, "/institutionalPrograms", "Spring"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Documents, 1)
	item := fmt.Sprintf("/institutionalPrograms/%d", created.ID)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		body   string
	}{
		{"get", httptest.NewRequest(http.MethodGet, item, nil), http.StatusOK, ""},
		{"update", programForm(t, item, "Autumn"), http.StatusOK, ""},
		{"search", httptest.NewRequest(http.MethodGet, "/institutionalPrograms?pageSize=10", nil), http.StatusOK, ""},
		{"mentees", httptest.NewRequest(http.MethodGet, item+"/mentees", nil), http.StatusOK, "[]"},
		{"mentors", httptest.NewRequest(http.MethodGet, item+"/mentors", nil), http.StatusOK, "[]"},
		{"delete", httptest.NewRequest(http.MethodDelete, item, nil), http.StatusOK, ""},
		{"get deleted", httptest.NewRequest(http.MethodGet, item, nil), http.StatusNotFound, ""},
		{"put is not routed", httptest.NewRequest(http.MethodPut, item, nil), http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		rec := serve(tt.req)
		assert.Equal(t, tt.status, rec.Code, "%s: %s", tt.name, rec.Body.String())
		if tt.body != "" {
			assert.JSONEq(t, tt.body, rec.Body.String(), tt.name)
		}
	}
}
