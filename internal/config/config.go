package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session storage drivers
const (
	SessionDriverMemory   = "memory"
	SessionDriverFile     = "file"
	SessionDriverPostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	API struct {
		Origin  string `yaml:"origin" env:"LIBRARY_API_ORIGIN"`
		Timeout string `yaml:"timeout" env:"LIBRARY_API_TIMEOUT"`
	} `yaml:"api"`

	Session struct {
		Driver      string `yaml:"driver" env:"SESSION_DRIVER"`
		FilePath    string `yaml:"file_path" env:"SESSION_FILE"`
		PostgresDSN string `yaml:"postgres_dsn" env:"SESSION_POSTGRES_DSN"`
		Profile     string `yaml:"profile" env:"SESSION_PROFILE"`
		MaxConns    int    `yaml:"max_conns" env:"SESSION_MAX_CONNS"`
	} `yaml:"session"`

	Preferences struct {
		Theme  string `yaml:"theme" env:"DEFAULT_THEME"`
		Locale string `yaml:"locale" env:"DEFAULT_LOCALE"`
	} `yaml:"preferences"`

	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Cookie struct {
		HashKey  string `yaml:"hash_key" env:"COOKIE_HASH_KEY"`
		BlockKey string `yaml:"block_key" env:"COOKIE_BLOCK_KEY"`
	} `yaml:"cookie"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables.
// Missing files are not an error; defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables already exported in the shell
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.API.Origin = "http://localhost:8080"
	config.API.Timeout = "0s"

	config.Session.Driver = SessionDriverFile
	config.Session.FilePath = defaultSessionFile()
	config.Session.Profile = "default"
	config.Session.MaxConns = 4

	config.Preferences.Theme = "light"
	config.Preferences.Locale = "en"

	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"

	config.JWT.Secret = "libraryhub-dev-secret"
	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "libraryhub.dev"

	config.SMTP.Port = 587
	config.SMTP.FromName = "LibraryHub"
	config.SMTP.FromEmail = "noreply@libraryhub.dev"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".libraryhub-session.json"
	}
	return dir + string(os.PathSeparator) + "libraryhub" + string(os.PathSeparator) + "session.json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	origin, err := url.Parse(config.API.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return fmt.Errorf("api origin must be an absolute URL, got %q", config.API.Origin)
	}

	if _, err := time.ParseDuration(config.API.Timeout); err != nil {
		return fmt.Errorf("invalid api timeout format: %w", err)
	}

	switch config.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverFile:
		if config.Session.FilePath == "" {
			return fmt.Errorf("session file path is required for the file driver")
		}
	case SessionDriverPostgres:
		if config.Session.PostgresDSN == "" {
			return fmt.Errorf("session postgres dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown session driver %q", config.Session.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	return nil
}

// BaseURL returns the API root every request path is appended to
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.API.Origin, "/") + "/api/v1/library"
}

// RequestTimeout returns the per-request timeout; zero means none
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
