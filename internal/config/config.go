package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Leave    LeaveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds access-token verification settings. Token issuance lives
// in the identity service; this engine only needs to verify.
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// LeaveConfig holds workflow policy knobs.
type LeaveConfig struct {
	// ApprovalChainDepth bounds manager-chain traversals. Chains deeper
	// than this are treated as a hierarchy integrity error.
	ApprovalChainDepth int
	// ApprovalChainFull grants approval authority to any ancestor in the
	// chain. When false only the direct manager may decide.
	ApprovalChainFull bool
}

func Load() (*Config, error) {
	// Optional; environment variables win in deployed environments.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "leave_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	chainDepth, err := strconv.Atoi(getEnv("APPROVAL_CHAIN_DEPTH", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPROVAL_CHAIN_DEPTH: %w", err)
	}
	chainFull, err := strconv.ParseBool(getEnv("APPROVAL_CHAIN_FULL", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPROVAL_CHAIN_FULL: %w", err)
	}

	config.Leave = LeaveConfig{
		ApprovalChainDepth: chainDepth,
		ApprovalChainFull:  chainFull,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Leave.ApprovalChainDepth < 1 {
		return fmt.Errorf("APPROVAL_CHAIN_DEPTH must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
