package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// StartupPolicy controls what the static server does when the built
// bundle is missing at startup.
type StartupPolicy string

const (
	// StartupFail refuses to start without the bundle.
	StartupFail StartupPolicy = "fail"
	// StartupDegrade starts anyway and serves a fixed unavailable page.
	StartupDegrade StartupPolicy = "degrade"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// Logging configuration
	Logging LoggingConfig
}

// ServerConfig holds static-asset server configuration
type ServerConfig struct {
	Port          string
	DistPath      string
	StartupPolicy StartupPolicy
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	distPath := os.Getenv("DIST_PATH")
	if distPath == "" {
		distPath = "dist"
	}

	policy := StartupPolicy(os.Getenv("STARTUP_POLICY"))
	switch policy {
	case "":
		policy = StartupFail
	case StartupFail, StartupDegrade:
	default:
		return nil, fmt.Errorf("invalid STARTUP_POLICY %q (expected %q or %q)", policy, StartupFail, StartupDegrade)
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Server: ServerConfig{
			Port:          port,
			DistPath:      distPath,
			StartupPolicy: policy,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
