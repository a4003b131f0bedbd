package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel    OTelConfig
	JobsAPI JobsAPIConfig
	DevAPI  DevAPIConfig
	Env     string
	Port    string
	NodeID  int64
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// JobsAPIConfig points at the remote job data source the loaders read from.
type JobsAPIConfig struct {
	BaseURL           string
	RequestsPerSecond float64 // 0 disables the limiter
	Burst             int
}

// DevAPIConfig configures the local fixture server standing in for the jobs API.
type DevAPIConfig struct {
	Port    string
	Fixture string // empty uses the embedded fixture
}

type ServiceType string

const (
	ServiceTypeServer  ServiceType = "server"
	ServiceTypeJobsAPI ServiceType = "jobsapi"
	ServiceTypeCLI     ServiceType = "sitectl"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the site server
//   - .env.jobsapi for the local jobs API
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("SITE_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:    getEnv("SITE_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		NodeID: getEnvInt64("NODE_ID", 1),
		JobsAPI: JobsAPIConfig{
			BaseURL:           getEnv("JOBS_API_URL", "http://localhost:5000"),
			RequestsPerSecond: getEnvFloat("JOBS_API_RPS", 0),
			Burst:             getEnvInt("JOBS_API_BURST", 1),
		},
		DevAPI: DevAPIConfig{
			Port:    getEnv("JOBSAPI_PORT", "5000"),
			Fixture: getEnv("JOBSAPI_FIXTURE", ""),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "jobs-site"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
	}

	if err := cfg.JobsAPI.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c JobsAPIConfig) RateLimited() bool {
	return c.RequestsPerSecond > 0
}

func (c JobsAPIConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("JOBS_API_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("JOBS_API_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("JOBS_API_RPS must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
