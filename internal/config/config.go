package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// API Configuration
	API APIConfig

	// Web shell Configuration
	Web WebConfig

	// Local storage Configuration
	Storage StorageConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the backend address and client settings
type APIConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

// WebConfig holds web shell settings
type WebConfig struct {
	ListenAddr    string `validate:"required"`
	SessionSecret string
	CookieSecure  bool
}

// StorageConfig selects where the session credential and admin flag live
type StorageConfig struct {
	Driver string `validate:"oneof=file keyring sqlite memory"`
	Path   string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// The front-end build used VITE_API_BASE_URL; accept it so existing .env files keep working
	baseURL := firstNonEmpty(os.Getenv("API_BASE_URL"), os.Getenv("VITE_API_BASE_URL"))

	timeout := 30 * time.Second
	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", raw, err)
		}
		timeout = d
	}

	cookieSecure := false
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE %q: %w", raw, err)
		}
		cookieSecure = v
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(baseURL, "/"),
			Timeout: timeout,
		},
		Web: WebConfig{
			ListenAddr:    firstNonEmpty(os.Getenv("LISTEN_ADDR"), ":8080"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			CookieSecure:  cookieSecure,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(firstNonEmpty(os.Getenv("STORAGE_DRIVER"), "file")),
			Path:   os.Getenv("STORAGE_PATH"),
		},
		Logging: LoggingConfig{
			Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
			Format: strings.ToLower(firstNonEmpty(os.Getenv("LOG_FORMAT"), "json")),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ValidateWeb checks the settings only the web shell needs
func (c *Config) ValidateWeb() error {
	if len(c.Web.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
