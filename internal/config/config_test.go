package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"MENTORME_PRIMARY__ENV":                     "local",
		"MENTORME_SERVER__PORT":                     "8080",
		"MENTORME_SERVER__READ_TIMEOUT":             "30",
		"MENTORME_SERVER__WRITE_TIMEOUT":            "30",
		"MENTORME_SERVER__IDLE_TIMEOUT":             "60",
		"MENTORME_SERVER__CORS_ALLOWED_ORIGINS":     "http://localhost:3000",
		"MENTORME_DATABASE__HOST":                   "localhost",
		"MENTORME_DATABASE__PORT":                   "5432",
		"MENTORME_DATABASE__USER":                   "postgres",
		"MENTORME_DATABASE__PASSWORD":               "postgres",
		"MENTORME_DATABASE__NAME":                   "mentorme",
		"MENTORME_DATABASE__SSL_MODE":               "disable",
		"MENTORME_DATABASE__MAX_OPEN_CONNS":         "25",
		"MENTORME_DATABASE__MAX_IDLE_CONNS":         "25",
		"MENTORME_DATABASE__CONN_MAX_LIFETIME":      "300",
		"MENTORME_DATABASE__CONN_MAX_IDLE_TIME":     "300",
		"MENTORME_REDIS__ADDRESS":                   "localhost:6379",
		"MENTORME_UPLOAD__BACKEND":                  "local",
		"MENTORME_UPLOAD__DIRECTORY":                "/tmp/mentorme",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("MENTORME_SERVER__PORT"))
	assert.Equal(t, "upload.minio.access_key", envKey("MENTORME_UPLOAD__MINIO__ACCESS_KEY"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "/tmp/mentorme", cfg.Upload.Directory)
	assert.Equal(t, int64(DefaultMaxFilesPerRequest), cfg.Upload.MaxFilesPerRequest)
	assert.False(t, cfg.Auth.Enabled)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadConfig_MaxFilesPerRequest(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENTORME_UPLOAD__MAX_FILES_PER_REQUEST", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Upload.MaxFilesPerRequest)

	t.Setenv("MENTORME_UPLOAD__MAX_FILES_PER_REQUEST", "-1")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MissingUploadDirectory(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENTORME_UPLOAD__DIRECTORY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Directory")
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENTORME_UPLOAD__BACKEND", "ftp")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_MinIORequiresBucket(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENTORME_UPLOAD__BACKEND", "minio")
	t.Setenv("MENTORME_UPLOAD__MINIO__ENDPOINT", "localhost:9000")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestLoadConfig_AuthEnabledNeedsSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENTORME_AUTH__ENABLED", "true")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("MENTORME_AUTH__SECRET_KEY", "sk_test")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enabled)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HasCheck("upload"))
	assert.False(t, cfg.HasCheck("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HasCheck("database"))
}
