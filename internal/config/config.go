package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Usage       UsageConfig
	RabbitMQ    RabbitMQConfig
	Validation  ValidationConfig
	Anomaly     AnomalyConfig
}

// HTTPConfig holds API server settings
type HTTPConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// UsageConfig holds aggregation settings
type UsageConfig struct {
	// Location is where hour, weekday and calendar-day bucket keys are derived
	Location *time.Location
}

// RabbitMQConfig holds RabbitMQ connection and queue settings.
// An empty URL disables messaging.
type RabbitMQConfig struct {
	URL              string
	IngestExchange   string
	IngestQueue      string
	IngestRoutingKey string
	EventsExchange   string
	EventsRoutingKey string
	DLQQueue         string
	PrefetchCount    int
}

// Enabled reports whether a broker is configured
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// ValidationConfig holds validation settings
type ValidationConfig struct {
	TimestampToleranceMinutes int
	// MaxUsageKWh is the largest single reading accepted
	MaxUsageKWh float64
}

// AnomalyConfig holds anomaly detection settings
type AnomalyConfig struct {
	SpikeThreshold            float64
	MinDataPointsForDetection int
	HistoryWindow             int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	loc, err := time.LoadLocation(getEnv("USAGE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("USAGE_TIMEZONE is invalid: %w", err)
	}

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "energy-harmony"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":5000"),
			RequestTimeout: time.Duration(getEnvAsInt("HTTP_REQUEST_TIMEOUT_MS", 10000)) * time.Millisecond,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		},
		Usage: UsageConfig{
			Location: loc,
		},
		RabbitMQ: LoadRabbitMQ(),
		Validation: ValidationConfig{
			TimestampToleranceMinutes: getEnvAsInt("VALIDATION_TIMESTAMP_TOLERANCE_MINUTES", 10080),
			MaxUsageKWh:               getEnvAsFloat("VALIDATION_MAX_USAGE_KWH", 100000),
		},
		Anomaly: AnomalyConfig{
			SpikeThreshold:            getEnvAsFloat("ANOMALY_SPIKE_THRESHOLD", 3.0),
			MinDataPointsForDetection: getEnvAsInt("ANOMALY_MIN_DATA_POINTS", 3),
			HistoryWindow:             getEnvAsInt("ANOMALY_HISTORY_WINDOW", 10),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set in environment variables")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set in environment variables")
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings
func LoadDatabase() (DatabaseConfig, error) {
	cfg := DatabaseConfig{URL: getEnv("DATABASE_URL", "")}
	if cfg.URL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required but not set in environment variables")
	}
	return cfg, nil
}

// LoadRabbitMQ reads only the broker settings
func LoadRabbitMQ() RabbitMQConfig {
	return RabbitMQConfig{
		URL:              getEnv("RABBITMQ_URL", ""),
		IngestExchange:   getEnv("RABBITMQ_INGEST_EXCHANGE", "energy-harmony.ingest.exchange"),
		IngestQueue:      getEnv("RABBITMQ_INGEST_QUEUE", "energy-harmony.ingest.queue"),
		IngestRoutingKey: getEnv("RABBITMQ_INGEST_ROUTING_KEY", "usage.sample.raw"),
		EventsExchange:   getEnv("RABBITMQ_EVENTS_EXCHANGE", "energy-harmony.events.exchange"),
		EventsRoutingKey: getEnv("RABBITMQ_EVENTS_ROUTING_KEY", "usage.recorded"),
		DLQQueue:         getEnv("RABBITMQ_DLQ_QUEUE", "energy-harmony.ingest.dlq"),
		PrefetchCount:    getEnvAsInt("RABBITMQ_PREFETCH", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
