package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MinSecretLen is the minimum byte length accepted for the token signing
// secret (256 bits).
const MinSecretLen = 32

// Config is the top-level quizdeck configuration file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// AuthConfig controls the identity core: the token signing secret, token
// lifetime, and the per-IP rate limit applied to the login endpoint.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	TokenTTL       string `yaml:"token_ttl"`
	LoginPerMinute int    `yaml:"login_per_minute"`
}

// DatabaseConfig selects the backing database. Driver is "sqlite"
// (default) or "postgres". For sqlite, DSN is a directory path and may be
// empty for in-memory operation.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config pre-filled with sensible defaults. The signing
// secret is deliberately absent: it must come from the environment or the
// config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "30s",
			CORSOrigins:     []string{"*"},
		},
		Auth: AuthConfig{
			TokenTTL:       "24h",
			LoginPerMinute: 10,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a YAML configuration file on top of the defaults.
// Environment variables referenced as ${VAR_NAME} in the file are expanded
// before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// TokenTTLDuration parses the configured token lifetime, falling back to
// 24h when unset or unparsable.
func (a AuthConfig) TokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// ShutdownTimeoutDuration parses the configured shutdown grace period,
// falling back to 30s.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ValidateSecret checks that the signing secret is present and long enough
// to key HMAC-SHA256 safely.
func (a AuthConfig) ValidateSecret() error {
	if a.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not set (set QUIZDECK_AUTH_JWT_SECRET or the config file)")
	}
	if len(a.JWTSecret) < MinSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes, got %d", MinSecretLen, len(a.JWTSecret))
	}
	return nil
}
