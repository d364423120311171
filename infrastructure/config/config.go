package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion    string
	UploadBucket string
	IdeasTable   string
	EventBusName string

	// Speech-to-text / extraction model configuration
	OpenAIAPIURL     string
	OpenAIAPIKey     string
	TranscribeModel  string
	ExtractModel     string
	ExtractMaxTokens int

	// Defaults applied when requests omit optional fields
	DefaultUserID string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		UploadBucket: getEnv("UPLOAD_BUCKET", "instaideas-audio"),
		IdeasTable:   getEnv("IDEAS_TABLE", "InstaIdeas"),
		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		OpenAIAPIURL:     getEnv("OPENAI_API_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		TranscribeModel:  getEnv("TRANSCRIBE_MODEL", "gpt-4o-transcribe"),
		ExtractModel:     getEnv("EXTRACT_MODEL", "gpt-4o-mini"),
		ExtractMaxTokens: getEnvInt("EXTRACT_MAX_TOKENS", 350),

		DefaultUserID: getEnv("DEFAULT_USER_ID", "demo-user"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.UploadBucket == "" {
			return fmt.Errorf("UPLOAD_BUCKET is required")
		}
		if c.IdeasTable == "" {
			return fmt.Errorf("IDEAS_TABLE is required")
		}
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
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
