// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
// A .env file in the working directory is loaded first, if present.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppVersion is reported by the health endpoints.
const AppVersion = "0.1.0"

// Config holds all application configuration.
// Values are loaded from environment variables, e.g. PORT=5000, DB_HOST=db.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 5000)
	Port int `envconfig:"PORT" default:"5000"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	// Host is the database host (default: localhost)
	Host string `envconfig:"DB_HOST" default:"localhost"`

	// Port is the database port (default: 3306)
	Port int `envconfig:"DB_PORT" default:"3306"`

	// Name is the database name (default: tdcweb)
	Name string `envconfig:"DB_NAME" default:"tdcweb"`

	// User is the database user (default: tdcweb)
	User string `envconfig:"DB_USER" default:"tdcweb"`

	// Password is the database password (change in production)
	Password string `envconfig:"DB_PASSWORD" default:"tdcweb"`

	// PoolSize is the maximum number of pooled connections (default: 10)
	PoolSize int `envconfig:"DB_POOL_SIZE" default:"10"`

	// ConnectTimeout bounds both dialing a new connection and waiting for
	// a free one at checkout (default: 30s)
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"30s"`

	// Charset is the connection character set (default: utf8mb4)
	Charset string `envconfig:"DB_CHARSET" default:"utf8mb4"`

	// Collation is the connection collation (default: utf8mb4_unicode_ci)
	Collation string `envconfig:"DB_COLLATION" default:"utf8mb4_unicode_ci"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the database address in host:port format.
func (c *DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment.
// A .env file is loaded first if one exists; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine; it only exists in development setups.
	_ = godotenv.Load()

	var cfg Config

	// Load each section separately to keep env var names flat
	// (DB_HOST instead of DATABASE_DB_HOST).
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main.go during startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
