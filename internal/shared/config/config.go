package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API       APIConfig
	Refresher RefresherConfig
	Telemetry TelemetryConfig
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type RefresherConfig struct {
	Enabled      bool
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	RunOnStartup bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	apiTimeout, err := time.ParseDuration(getEnv("FINBRIDGE_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINBRIDGE_API_TIMEOUT: %w", err)
	}

	refreshInterval, err := time.ParseDuration(getEnv("FINBRIDGE_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINBRIDGE_REFRESH_INTERVAL: %w", err)
	}
	refreshWorkers, err := strconv.Atoi(getEnv("FINBRIDGE_REFRESH_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINBRIDGE_REFRESH_WORKERS: %w", err)
	}
	refreshQueueSize, err := strconv.Atoi(getEnv("FINBRIDGE_REFRESH_QUEUE_SIZE", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINBRIDGE_REFRESH_QUEUE_SIZE: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("FINBRIDGE_BASE_URL", "https://shmr-finance.ru/api/v1"), "/"),
			Token:   getEnv("FINBRIDGE_API_TOKEN", ""),
			Timeout: apiTimeout,
		},
		Refresher: RefresherConfig{
			Enabled:      getBoolEnv("FINBRIDGE_REFRESH_ENABLED", true),
			Interval:     refreshInterval,
			WorkerCount:  refreshWorkers,
			QueueSize:    refreshQueueSize,
			RunOnStartup: getBoolEnv("FINBRIDGE_REFRESH_ON_STARTUP", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finbridge"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("FINBRIDGE_METRICS_PORT", "9464"),
		},
	}

	// Validate required fields
	if cfg.API.Token == "" {
		return nil, fmt.Errorf("FINBRIDGE_API_TOKEN is required")
	}
	if cfg.Refresher.Enabled {
		if cfg.Refresher.Interval <= 0 {
			return nil, fmt.Errorf("FINBRIDGE_REFRESH_INTERVAL must be positive")
		}
		if cfg.Refresher.WorkerCount <= 0 {
			return nil, fmt.Errorf("FINBRIDGE_REFRESH_WORKERS must be positive")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
