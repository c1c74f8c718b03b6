package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/mentorme/internal/config"
	"github.com/deppfellow/mentorme/internal/lib/upload"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthResponse struct {
	Status string                       `json:"status"`
	Checks map[string]map[string]string `json:"checks"`
}

func newHealthServer(t *testing.T, uploadDir string) (*server.Server, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Redis:    rdb,
		Uploader: upload.NewLocalUploader(uploadDir, 0),
	}, mr
}

func checkHealth(t *testing.T, s *server.Server) (int, healthResponse) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

	require.NoError(t, NewHealthHandler(s).CheckHealth(c))

	var res healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestCheckHealth_Healthy(t *testing.T) {
	s, _ := newHealthServer(t, t.TempDir())

	code, res := checkHealth(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "healthy", res.Checks["redis"]["status"])
	assert.Equal(t, "healthy", res.Checks["upload"]["status"])
	assert.NotContains(t, res.Checks, "database")
}

func TestCheckHealth_RedisDownDegrades(t *testing.T) {
	s, mr := newHealthServer(t, t.TempDir())
	mr.Close()

	code, res := checkHealth(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", res.Status)
	assert.Equal(t, "unhealthy", res.Checks["redis"]["status"])
	assert.NotEmpty(t, res.Checks["redis"]["error"])
}

func TestCheckHealth_StorageDownIsUnhealthy(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	s, _ := newHealthServer(t, notADir)

	code, res := checkHealth(t, s)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", res.Status)
	assert.Equal(t, "unhealthy", res.Checks["upload"]["status"])
}

func TestCheckHealth_OnlyConfiguredChecks(t *testing.T) {
	s, _ := newHealthServer(t, t.TempDir())
	s.Config.Observability.HealthChecks.Checks = []string{"upload"}

	_, res := checkHealth(t, s)
	assert.Contains(t, res.Checks, "upload")
	assert.NotContains(t, res.Checks, "redis")
}
