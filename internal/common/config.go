package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	GenAI   GenAIConfig
	Queue   QueueConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr     string
	LogLevel string
	LogJSON  bool
}

// CatalogConfig holds template catalog storage configuration
type CatalogConfig struct {
	DBPath string
}

// GenAIConfig holds generative model configuration
type GenAIConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// QueueConfig holds processing queue configuration
type QueueConfig struct {
	Workers        int
	Size           int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:     getEnv("HTTP_ADDR", ":8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogJSON:  getEnvAsBool("LOG_JSON", true),
		},
		Catalog: CatalogConfig{
			DBPath: getEnv("CATALOG_DB_PATH", "./templates.db"),
		},
		GenAI: GenAIConfig{
			Model:       getEnv("GENAI_MODEL", "gemini-3-pro-preview"),
			APIKey:      getEnv("GENAI_API_KEY", ""),
			BaseURL:     getEnv("GENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Temperature: getEnvAsFloat32("GENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("GENAI_TIMEOUT", 90*time.Second),
		},
		Queue: QueueConfig{
			Workers:        getEnvAsInt("QUEUE_WORKERS", 1),
			Size:           getEnvAsInt("QUEUE_SIZE", 64),
			ProcessTimeout: getEnvAsDuration("QUEUE_PROCESS_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.GenAI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Queue.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
