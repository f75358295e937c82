// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Config holds all application configuration.
type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	Backend string `mapstructure:"STORE_BACKEND"`

	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseMaxConns int32  `mapstructure:"DATABASE_MAX_CONNS"`
	DatabaseMinConns int32  `mapstructure:"DATABASE_MIN_CONNS"`

	FirestoreProjectID       string `mapstructure:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `mapstructure:"FIRESTORE_CREDENTIALS_FILE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	AuditEnabled bool `mapstructure:"AUDIT_ENABLED"`
}

// IsDevelopment reports whether the process runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// gets a default here.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_MIN_CONNS", 2)
	v.SetDefault("FIRESTORE_PROJECT_ID", "")
	v.SetDefault("FIRESTORE_CREDENTIALS_FILE", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "procurement")
	v.SetDefault("AUDIT_ENABLED", true)
}

// Validate checks the settings the selected backend depends on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
		if c.DatabaseMinConns > c.DatabaseMaxConns {
			return fmt.Errorf("DATABASE_MIN_CONNS (%d) exceeds DATABASE_MAX_CONNS (%d)",
				c.DatabaseMinConns, c.DatabaseMaxConns)
		}
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the %s backend", BackendFirestore)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	if !c.IsDevelopment() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}
