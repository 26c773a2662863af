package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"oneof=development staging production"`

	// Content backend configuration
	ContentAPIURL        string `validate:"required,url"`
	NavigationServiceURL string `validate:"required,url"`
	ContentAPIKey        string
	ChangeEventsURL      string `validate:"omitempty,uri"`

	// Locale configuration
	DefaultLocale  string `validate:"required"`
	ValidLanguages []string

	// Dataset routing
	UseExactDatasetRouting bool
	RemoteDatasetProjectID string
	PageRefMapping         map[string]string

	// Stored-item cache
	StoreTTL      int64 // milliseconds
	StoreCapacity int

	// Live-edit bridge
	PreviewMode            bool
	EventTimeout           time.Duration
	NavigationEventTimeout time.Duration

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		ContentAPIURL:        getEnv("CONTENT_API_URL", "http://localhost:8081/api"),
		NavigationServiceURL: getEnv("NAVIGATION_SERVICE_URL", "http://localhost:8082"),
		ContentAPIKey:        getEnv("CONTENT_API_KEY", ""),
		ChangeEventsURL:      getEnv("CHANGE_EVENTS_URL", ""),

		DefaultLocale:  getEnv("DEFAULT_LOCALE", "en_GB"),
		ValidLanguages: getEnvList("VALID_LANGUAGES"),

		UseExactDatasetRouting: getEnvBool("USE_EXACT_DATASET_ROUTING", false),
		RemoteDatasetProjectID: getEnv("REMOTE_DATASET_PROJECT_ID", ""),

		StoreTTL:      getEnvInt64("STORE_TTL", 300000),
		StoreCapacity: getEnvInt("STORE_CAPACITY", 1024),

		PreviewMode:            getEnvBool("PREVIEW_MODE", false),
		EventTimeout:           time.Duration(getEnvInt64("EVENT_TIMEOUT_MS", 5000)) * time.Millisecond,
		NavigationEventTimeout: time.Duration(getEnvInt64("NAVIGATION_EVENT_TIMEOUT_MS", 4500)) * time.Millisecond,

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	mapping, err := getEnvJSONMap("REMOTE_DATASET_PAGEREF_MAPPING")
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_DATASET_PAGEREF_MAPPING: %w", err)
	}
	cfg.PageRefMapping = mapping

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.PreviewMode && c.ChangeEventsURL == "" {
		return fmt.Errorf("CHANGE_EVENTS_URL is required when PREVIEW_MODE is enabled")
	}
	if c.RemoteDatasetProjectID == "" && len(c.PageRefMapping) > 0 {
		return fmt.Errorf("REMOTE_DATASET_PAGEREF_MAPPING requires REMOTE_DATASET_PROJECT_ID")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 gets a 64-bit integer environment variable with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getEnvJSONMap gets a JSON object environment variable as a string map
func getEnvJSONMap(key string) (map[string]string, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	var result map[string]string
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}
	return result, nil
}
