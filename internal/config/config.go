package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Model      ModelConfig
	Quotation  QuotationConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence over the parts below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// Artifact sources
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRemote   = "remote"
)

// ModelConfig says where the trained model and its feature columns come from
type ModelConfig struct {
	Source       string // file, postgres or remote
	ArtifactPath string // JSON or YAML file for the file source
	ArtifactName string // row name in model_artifacts for the postgres source
	Variant      string // input schema when the artifact does not name one
	RemoteURL    string
	APIKey       string
	Timeout      int // seconds
}

// QuotationConfig holds presentation and pricing policy
type QuotationConfig struct {
	CurrencySymbol     string
	Locale             string
	AllowUnknownRegion bool // price regions outside the table at 1.0 instead of failing
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "quotation"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Model: ModelConfig{
			Source:       getEnv("MODEL_SOURCE", SourceFile),
			ArtifactPath: getEnv("MODEL_ARTIFACT_PATH", "artifacts/cost_estimation_model.json"),
			ArtifactName: getEnv("MODEL_ARTIFACT_NAME", "cost_estimation_model"),
			Variant:      getEnv("MODEL_VARIANT", "full"),
			RemoteURL:    getEnv("MODEL_REMOTE_URL", "http://localhost:8000"),
			APIKey:       getEnv("MODEL_API_KEY", ""),
			Timeout:      getEnvAsInt("MODEL_TIMEOUT", 10),
		},
		Quotation: QuotationConfig{
			CurrencySymbol:     getEnv("QUOTE_CURRENCY_SYMBOL", "₦"),
			Locale:             getEnv("QUOTE_LOCALE", "en-NG"),
			AllowUnknownRegion: getEnvAsBool("QUOTE_ALLOW_UNKNOWN_REGION", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	switch cfg.Model.Source {
	case SourceFile, SourcePostgres, SourceRemote:
	default:
		return nil, fmt.Errorf("invalid MODEL_SOURCE %q, must be one of: file, postgres, remote", cfg.Model.Source)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
