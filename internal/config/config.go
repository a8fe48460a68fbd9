package config

import (
	"os"
	"strconv"
	"time"

	"rifa/internal/database"
	"rifa/internal/external"
	"rifa/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Admin credentials for the dashboard API
	AdminUser     string
	AdminPassword string

	// Where the validator writes its JSON artifacts
	LogsDir string

	// Interval for the background validation job
	ValidationInterval time.Duration

	Database      database.Config
	NATS          messaging.Config
	Valkey        ValkeyConfig
	Elasticsearch ElasticsearchConfig
	Mailer        external.MailerConfig
	Images        external.ImagesConfig
}

// ValkeyConfig holds the cache connection settings
type ValkeyConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ElasticsearchConfig holds the search index settings
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
	Enabled    bool
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		LogsDir: getEnv("LOGS_DIR", "logs"),

		ValidationInterval: time.Duration(getEnvInt("VALIDATION_INTERVAL_MIN", 60)) * time.Minute,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "rifa"),
			Password:           getEnv("DB_PASSWORD", "rifa123"),
			DBName:             getEnv("DB_NAME", "rifa"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "rifa"),
			ClientID:  getEnv("NATS_CLIENT_ID", "rifa-api"),
		},

		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("VALKEY_TTL_SEC", 60)) * time.Second,
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "raffles"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
		},

		Mailer: external.MailerConfig{
			BaseURL: getEnv("MAILER_URL", "https://api.resend.com/emails"),
			APIKey:  getEnv("MAILER_API_KEY", ""),
			From:    getEnv("MAILER_FROM", "no-reply@rifa.local"),
			Timeout: time.Duration(getEnvInt("MAILER_TIMEOUT_SEC", 30)) * time.Second,
		},

		Images: external.ImagesConfig{
			BaseURL:      getEnv("IMAGES_UPLOAD_URL", ""),
			UploadPreset: getEnv("IMAGES_UPLOAD_PRESET", ""),
			Timeout:      time.Duration(getEnvInt("IMAGES_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv returns the env var value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the env var value parsed as int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
