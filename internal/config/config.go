package config

import (
	"os"
	"strconv"
	"time"

	"toplist/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Web      WebConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// LLMConfig holds Groq/LLM related settings
type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// WebConfig holds Firecrawl web-research settings
type WebConfig struct {
	APIKey       string
	BaseURL      string
	SearchLimit  int
	Timeout      time.Duration
	ScrapeWaitMs int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("GROQ_API_KEY"),
			Model:       getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
			BaseURL:     getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 1024),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.2),
			Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		},
		Web: WebConfig{
			APIKey:       os.Getenv("FIRECRAWL_API_KEY"),
			BaseURL:      getEnvOrDefault("FIRECRAWL_BASE_URL", "https://api.firecrawl.dev/v1"),
			SearchLimit:  getEnvIntOrDefault("WIKIPEDIA_SEARCH_LIMIT", 5),
			Timeout:      getEnvDurationOrDefault("WEB_TIMEOUT", 45*time.Second),
			ScrapeWaitMs: getEnvIntOrDefault("SCRAPE_WAIT_MS", 1000),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	// LLM and web keys are optional: the research pipeline degrades to
	// zero-confidence stages when a collaborator is not configured.
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
