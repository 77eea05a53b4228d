package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var ErrMissingSecret = errors.New("JWT_SECRET_KEY environment variable is required")

// Config keeps runtime settings for the catalog service.
type Config struct {
	Port          string
	GinMode       string
	JWTSecret     string
	Database      Database
	MaxAttempts   int
	AuditSchedule string
	GoogleAPIURL  string
	FacebookURL   string
	LogLevel      string
	LogFormat     string
}

// Database selects and parameterizes the backing store.
type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string // sqlite only
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "catalogstore")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("SQLITE_PATH", "catalog.db")
	v.SetDefault("STORE_MAX_ATTEMPTS", 3)
	v.SetDefault("GOOGLE_API_URL", "https://www.googleapis.com")
	v.SetDefault("FACEBOOK_GRAPH_URL", "https://graph.facebook.com/v2.8")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads configuration from .env, the environment and, when file is not
// empty, a config file. A missing .env is not an error.
func Load(file string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:          strings.TrimSpace(v.GetString("PORT")),
		GinMode:       strings.TrimSpace(v.GetString("GIN_MODE")),
		JWTSecret:     strings.TrimSpace(v.GetString("JWT_SECRET_KEY")),
		MaxAttempts:   v.GetInt("STORE_MAX_ATTEMPTS"),
		AuditSchedule: strings.TrimSpace(v.GetString("AUDIT_SCHEDULE")),
		GoogleAPIURL:  strings.TrimRight(v.GetString("GOOGLE_API_URL"), "/"),
		FacebookURL:   strings.TrimRight(v.GetString("FACEBOOK_GRAPH_URL"), "/"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		Database: Database{
			Driver:   strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),
			Path:     v.GetString("SQLITE_PATH"),
		},
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// RequireSecret reports ErrMissingSecret when no signing key is configured.
// Commands that never issue tokens (migrate, seed, audit) skip it.
func (c Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}
