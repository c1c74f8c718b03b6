// Package config loads the application configuration from the environment.
//
// Values are read from MENTORME_* environment variables (a `.env` file is
// loaded first when present), decoded into the Config struct with koanf and
// validated with go-playground/validator so the process fails fast on
// missing settings.
//
// Nesting uses a double underscore:
//
//	MENTORME_SERVER__PORT=8080          -> server.port
//	MENTORME_UPLOAD__MINIO__BUCKET=docs -> upload.minio.bucket
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix every configuration variable carries.
	EnvPrefix = "MENTORME_"

	// ServiceName tags logs and traces.
	ServiceName = "mentorme"
)

// Config is the root configuration object for the application.
//
// Observability is optional: when absent, DefaultObservabilityConfig is used.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth"`
	Upload        UploadConfig         `koanf:"upload" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed requests per second per client IP. 0 disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig configures Clerk authentication of the mutating routes.
type AuthConfig struct {
	Enabled   bool   `koanf:"enabled"`
	SecretKey string `koanf:"secret_key" validate:"required_if=Enabled true"`
}

// UploadConfig configures where uploaded program documents are stored.
type UploadConfig struct {
	// Backend is "local" (filesystem) or "minio" (object storage).
	Backend string `koanf:"backend" validate:"required,oneof=local minio"`

	// Directory is the upload directory for the local backend and the
	// object key prefix for the minio backend.
	Directory string `koanf:"directory" validate:"required"`

	// MaxFileSize caps a single uploaded file, in bytes. 0 means no cap.
	MaxFileSize int64 `koanf:"max_file_size" validate:"gte=0"`

	// MaxFilesPerRequest bounds the request body at MaxFileSize times this
	// value. Defaults to DefaultMaxFilesPerRequest.
	MaxFilesPerRequest int64 `koanf:"max_files_per_request" validate:"gte=0"`

	MinIO MinIOConfig `koanf:"minio"`
}

const DefaultMaxFilesPerRequest = 10

// MinIOConfig holds MinIO connection configuration, used when Backend is "minio".
type MinIOConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
}

// envKey maps MENTORME_UPLOAD__MINIO__BUCKET to upload.minio.bucket.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from environment variables, validates it,
// applies observability defaults and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Upload.MaxFilesPerRequest == 0 {
		mainConfig.Upload.MaxFilesPerRequest = DefaultMaxFilesPerRequest
	}

	if mainConfig.Upload.Backend == "minio" {
		if err := mainConfig.Upload.MinIO.Validate(); err != nil {
			return nil, err
		}
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// Validate checks the settings the minio backend cannot run without.
func (c MinIOConfig) Validate() error {
	switch {
	case c.Endpoint == "":
		return fmt.Errorf("upload.minio.endpoint is required for the minio backend")
	case c.Bucket == "":
		return fmt.Errorf("upload.minio.bucket is required for the minio backend")
	}
	return nil
}
