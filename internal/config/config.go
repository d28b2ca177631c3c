package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port            string
	MongoDBURI      string
	MongoDBPassword string
	Environment     string
	LogLevel        string

	// Auto-release settlement policy: held payments for sessions completed
	// at least AutoReleaseDelay ago are released without manual action.
	AutoReleaseDelay    time.Duration
	AutoReleaseInterval time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required")
	}

	delay, err := time.ParseDuration(getEnvWithDefault("AUTO_RELEASE_DELAY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_RELEASE_DELAY: %v", err)
	}
	cfg.AutoReleaseDelay = delay

	interval, err := time.ParseDuration(getEnvWithDefault("AUTO_RELEASE_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_RELEASE_INTERVAL: %v", err)
	}
	cfg.AutoReleaseInterval = interval

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
