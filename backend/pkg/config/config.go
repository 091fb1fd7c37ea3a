package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	apperrors "sweepgraph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string // empty selects the server default database

	// Search
	SearchDefaultLimit int
	SearchMinLimit     int
	SearchMaxLimit     int

	// Import
	ImportLogFile string // optional extra log sink for import runs
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		Neo4jURI:           getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", "neo4j"),
		Neo4jDatabase:      getEnv("NEO4J_DATABASE", ""),
		SearchDefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 100),
		SearchMinLimit:     getEnvInt("SEARCH_MIN_LIMIT", 10),
		SearchMaxLimit:     getEnvInt("SEARCH_MAX_LIMIT", 500),
		ImportLogFile:      getEnv("IMPORT_LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.SearchMinLimit < 1 {
		return apperrors.NewConfigValidationFailed("SEARCH_MIN_LIMIT", "must be at least 1")
	}
	if c.SearchMaxLimit < c.SearchMinLimit {
		return apperrors.NewConfigValidationFailed("SEARCH_MAX_LIMIT", "must not be below SEARCH_MIN_LIMIT")
	}
	if c.SearchDefaultLimit < c.SearchMinLimit || c.SearchDefaultLimit > c.SearchMaxLimit {
		return apperrors.NewConfigValidationFailed("SEARCH_DEFAULT_LIMIT", "must lie within the min/max search limits")
	}
	return nil
}

// ClampLimit bounds a requested search row cap. Non-positive values select
// the default.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.SearchDefaultLimit
	}
	if limit < c.SearchMinLimit {
		return c.SearchMinLimit
	}
	if limit > c.SearchMaxLimit {
		return c.SearchMaxLimit
	}
	return limit
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
