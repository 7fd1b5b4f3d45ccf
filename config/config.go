package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment     string
	Port            string
	TableName       string
	CORSOrigins     []string
	AWSRegion       string
	DynamoEndpoint  string
	AWSAccessKeyID  string
	AWSSecretAccess string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:     env,
		Port:            os.Getenv("PORT"),
		TableName:       os.Getenv("DYNAMODB_TABLE"),
		CORSOrigins:     splitOrigins(os.Getenv("CORS_ORIGINS")),
		AWSRegion:       os.Getenv("AWS_REGION"),
		DynamoEndpoint:  os.Getenv("DYNAMODB_ENDPOINT"),
		AWSAccessKeyID:  os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccess: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	// Set defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.TableName == "" {
		cfg.TableName = "events"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}

	return cfg, nil
}

// splitOrigins parses a comma-separated origin list. An empty value means
// all origins are allowed ("*").
func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
