package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Scanner      ScannerConfig
	Notification NotificationConfig
	Logging      LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains the embedded database configuration
type DatabaseConfig struct {
	Path string
}

// ScannerConfig controls the periodic evaluation pass. The schedule is
// a standard cron expression; scheduling policy belongs to the host,
// the engine itself is on-demand.
type ScannerConfig struct {
	Enabled  bool
	Schedule string
}

// NotificationConfig contains notification dispatch configuration
type NotificationConfig struct {
	DesktopWebhookURL string
	EmailFrom         string
	EmailTo           string
	SMSRecipient      string
	Timeout           time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./creditwatch.db"),
		},
		Scanner: ScannerConfig{
			Enabled:  getEnvAsBool("SCANNER_ENABLED", true),
			Schedule: getEnv("SCANNER_SCHEDULE", "*/5 * * * *"),
		},
		Notification: NotificationConfig{
			DesktopWebhookURL: getEnv("DESKTOP_WEBHOOK_URL", ""),
			EmailFrom:         getEnv("EMAIL_FROM", ""),
			EmailTo:           getEnv("EMAIL_TO", ""),
			SMSRecipient:      getEnv("SMS_RECIPIENT", ""),
			Timeout:           getEnvAsDuration("NOTIFICATION_TIMEOUT", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}

	if c.Scanner.Enabled {
		if _, err := cron.ParseStandard(c.Scanner.Schedule); err != nil {
			return fmt.Errorf("invalid scanner schedule %q: %w", c.Scanner.Schedule, err)
		}
	}

	return nil
}

// Helper functions

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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
