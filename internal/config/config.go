package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	API       APIConfig
	Engine    EngineConfig
	Telephony TelephonyConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the metadata side-channel store configuration
type RedisConfig struct {
	URL string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// EngineConfig holds campaign engine configuration
type EngineConfig struct {
	PollInterval   time.Duration
	InterCallDelay time.Duration
	DefaultRegion  string
}

// TelephonyConfig holds voice provider configuration
type TelephonyConfig struct {
	ServerURL string
	APIKey    string
	APISecret string
	AgentName string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present (local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	pollInterval, err := time.ParseDuration(getEnv("ENGINE_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_POLL_INTERVAL: %w", err)
	}

	interCallDelay, err := time.ParseDuration(getEnv("ENGINE_INTER_CALL_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_INTER_CALL_DELAY: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "voicereach"),
			Password: getEnv("DB_PASSWORD", "voicereach"),
			DBName:   getEnv("DB_NAME", "voicereach"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Engine: EngineConfig{
			PollInterval:   pollInterval,
			InterCallDelay: interCallDelay,
			DefaultRegion:  getEnv("ENGINE_DEFAULT_REGION", "GB"),
		},
		Telephony: TelephonyConfig{
			ServerURL: getEnv("VOICE_SERVER_URL", ""),
			APIKey:    getEnv("VOICE_API_KEY", ""),
			APISecret: getEnv("VOICE_API_SECRET", ""),
			AgentName: getEnv("VOICE_AGENT_NAME", "voice-agent"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and sane ranges.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("API_PORT must be a valid port, got %d", c.API.Port)
	}
	if c.Engine.PollInterval < time.Second {
		return fmt.Errorf("ENGINE_POLL_INTERVAL must be at least 1s, got %s", c.Engine.PollInterval)
	}
	if c.Engine.InterCallDelay < 0 {
		return fmt.Errorf("ENGINE_INTER_CALL_DELAY must not be negative, got %s", c.Engine.InterCallDelay)
	}
	if c.Telephony.ServerURL == "" {
		return fmt.Errorf("VOICE_SERVER_URL is required")
	}
	if c.Telephony.APIKey == "" || c.Telephony.APISecret == "" {
		return fmt.Errorf("VOICE_API_KEY and VOICE_API_SECRET are required")
	}
	return nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
