package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the postboard service
type Config struct {
	// Server
	Port     string `yaml:"port"`
	Host     string `yaml:"host"`
	LogLevel string `yaml:"log_level"`
	BaseURL  string `yaml:"base_url"`

	// Database
	DatabaseURL      string `yaml:"database_url"`
	DatabaseHost     string `yaml:"db_host"`
	DatabasePort     string `yaml:"db_port"`
	DatabaseName     string `yaml:"db_name"`
	DatabaseUser     string `yaml:"db_user"`
	DatabasePassword string `yaml:"db_password"`
	DatabaseSSLMode  string `yaml:"db_ssl_mode"`

	// Kratos
	KratosPublicURL string `yaml:"kratos_public_url"`

	// Session
	SessionCookieName string        `yaml:"session_cookie_name"`
	ClientCookieName  string        `yaml:"client_cookie_name"`
	SessionTimeout    time.Duration `yaml:"session_timeout"`
	CSRFTokenLength   int           `yaml:"csrf_token_length"`

	// Client auth state
	MessageCapacity int           `yaml:"message_capacity"`
	StateIdleTTL    time.Duration `yaml:"state_idle_ttl"`

	// Policy: navigate to /profile on a sign-in auth event. The source
	// application carried both behaviors; the default here is to stay on
	// the current page.
	RedirectToProfileOnLogin bool `yaml:"redirect_to_profile_on_login"`
}

// Load reads configuration from environment variables, then applies the
// optional YAML override file named by CONFIG_FILE
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9600")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	config.BaseURL = getEnvOrDefault("BASE_URL", "http://localhost:9600")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	config.DatabaseHost = getEnvOrDefault("DB_HOST", "postboard-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "postboard_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "postboard_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	// Kratos configuration
	config.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	if config.KratosPublicURL == "" {
		return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
	}

	// Session configuration
	config.SessionCookieName = getEnvOrDefault("SESSION_COOKIE_NAME", "pb_session")
	config.ClientCookieName = getEnvOrDefault("CLIENT_COOKIE_NAME", "pb_client")

	var err error
	sessionTimeoutStr := getEnvOrDefault("SESSION_TIMEOUT", "24h")
	config.SessionTimeout, err = time.ParseDuration(sessionTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TIMEOUT: %w", err)
	}

	csrfLengthStr := getEnvOrDefault("CSRF_TOKEN_LENGTH", "32")
	csrfLength, err := strconv.Atoi(csrfLengthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CSRF_TOKEN_LENGTH: %w", err)
	}
	config.CSRFTokenLength = csrfLength

	messageCapacityStr := getEnvOrDefault("MESSAGE_CAPACITY", "16")
	config.MessageCapacity, err = strconv.Atoi(messageCapacityStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_CAPACITY: %w", err)
	}

	stateIdleTTLStr := getEnvOrDefault("STATE_IDLE_TTL", "1h")
	config.StateIdleTTL, err = time.ParseDuration(stateIdleTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_IDLE_TTL: %w", err)
	}

	config.RedirectToProfileOnLogin = getBoolEnv("REDIRECT_TO_PROFILE_ON_LOGIN", false)

	// Optional YAML overrides
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to apply config file: %w", err)
		}
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyFile overlays non-zero values from a YAML file onto the config
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	overrides := &Config{}
	if err := yaml.Unmarshal(data, overrides); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if overrides.Port != "" {
		c.Port = overrides.Port
	}
	if overrides.Host != "" {
		c.Host = overrides.Host
	}
	if overrides.LogLevel != "" {
		c.LogLevel = overrides.LogLevel
	}
	if overrides.BaseURL != "" {
		c.BaseURL = overrides.BaseURL
	}
	if overrides.DatabaseURL != "" {
		c.DatabaseURL = overrides.DatabaseURL
	}
	if overrides.KratosPublicURL != "" {
		c.KratosPublicURL = overrides.KratosPublicURL
	}
	if overrides.SessionCookieName != "" {
		c.SessionCookieName = overrides.SessionCookieName
	}
	if overrides.ClientCookieName != "" {
		c.ClientCookieName = overrides.ClientCookieName
	}
	if overrides.SessionTimeout != 0 {
		c.SessionTimeout = overrides.SessionTimeout
	}
	if overrides.CSRFTokenLength != 0 {
		c.CSRFTokenLength = overrides.CSRFTokenLength
	}
	if overrides.MessageCapacity != 0 {
		c.MessageCapacity = overrides.MessageCapacity
	}
	if overrides.StateIdleTTL != 0 {
		c.StateIdleTTL = overrides.StateIdleTTL
	}
	if overrides.RedirectToProfileOnLogin {
		c.RedirectToProfileOnLogin = true
	}

	return nil
}

// CookieSecure reports whether cookies should carry the Secure flag,
// derived from the scheme the service is served on
func (c *Config) CookieSecure() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.CSRFTokenLength < 16 {
		return fmt.Errorf("CSRF token length must be at least 16, got: %d", c.CSRFTokenLength)
	}

	if c.SessionTimeout < time.Minute {
		return fmt.Errorf("session timeout must be at least 1 minute, got: %v", c.SessionTimeout)
	}

	if c.MessageCapacity < 1 {
		return fmt.Errorf("message capacity must be at least 1, got: %d", c.MessageCapacity)
	}

	if c.StateIdleTTL < time.Minute {
		return fmt.Errorf("state idle TTL must be at least 1 minute, got: %v", c.StateIdleTTL)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
