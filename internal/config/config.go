package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Card token cases
const (
	CaseUpper  = "upper"
	CaseLower  = "lower"
	CaseSymbol = "symbol"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	AppID   string
	GuildID string

	// Storage
	DataDir     string
	StorageType string

	// Elasticsearch, enabled when URL is set
	ElasticsearchURL         string
	ElasticsearchUsername    string
	ElasticsearchPassword    string
	ElasticsearchIndexPrefix string
	ElasticsearchReindex     string // Go duration between full reindex runs

	// Presentation
	CardCase string
	LogLevel string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := FromEnv(filepath.Join(wd, "data"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it
func FromEnv(defaultDataDir string) *Config {
	return &Config{
		Token:                    os.Getenv("DISCORD_TOKEN"),
		AppID:                    os.Getenv("APP_ID"),
		GuildID:                  os.Getenv("GUILD_ID"),
		Environment:              getEnvWithDefault("ENVIRONMENT", "development"),
		DataDir:                  getEnvWithDefault("DATA_DIR", defaultDataDir),
		StorageType:              getEnvWithDefault("STORAGE_TYPE", StorageMemory),
		ElasticsearchURL:         os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername:    os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword:    os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndexPrefix: getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "cardindex"),
		ElasticsearchReindex:     getEnvWithDefault("ELASTICSEARCH_REINDEX_INTERVAL", "1h"),
		CardCase:                 getEnvWithDefault("CARD_CASE", CaseUpper),
		LogLevel:                 getEnvWithDefault("LOG_LEVEL", "INFO"),
	}
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	switch c.StorageType {
	case StorageMemory, StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of %s, %s, %s; got %q", StorageMemory, StorageFile, StorageSQLite, c.StorageType)
	}
	switch c.CardCase {
	case CaseUpper, CaseLower, CaseSymbol:
	default:
		return fmt.Errorf("CARD_CASE must be one of %s, %s, %s; got %q", CaseUpper, CaseLower, CaseSymbol, c.CardCase)
	}
	if d, err := time.ParseDuration(c.ElasticsearchReindex); err != nil || d <= 0 {
		return fmt.Errorf("ELASTICSEARCH_REINDEX_INTERVAL must be a positive duration; got %q", c.ElasticsearchReindex)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ElasticsearchEnabled reports whether decks should also be indexed in Elasticsearch
func (c *Config) ElasticsearchEnabled() bool {
	return c.ElasticsearchURL != ""
}

// ReindexInterval returns the parsed reindex interval, or zero if it is invalid
func (c *Config) ReindexInterval() time.Duration {
	d, err := time.ParseDuration(c.ElasticsearchReindex)
	if err != nil {
		return 0
	}
	return d
}

// DeckFilePath is where the file backend keeps its decks
func (c *Config) DeckFilePath() string {
	return filepath.Join(c.DataDir, "decks.json")
}

// SQLitePath is where the SQLite backend keeps its database
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "cardindex.db")
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
