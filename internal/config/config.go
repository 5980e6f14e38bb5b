package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	ServerPort  string
	BackendURL  string
	FrontendURL string
	RedisURL    string

	SecretKey     string
	TokenTTLHours int
	AdminEmail    string
	FromEmail     string

	GoogleClientID       string
	GoogleClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string

	ResendAPIKey     string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	ZoomAccountID    string
	ZoomClientID     string
	ZoomClientSecret string

	CalendarClientID     string
	CalendarClientSecret string
	CalendarRefreshToken string
	CalendarID           string

	OpenAIKey string
	AIModel   string
	AIBaseURL string

	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SecretKey:     getEnv("SECRET_KEY", ""),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		FromEmail:     getEnv("FROM_EMAIL", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		LinkedInClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedInClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),

		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		ZoomAccountID:    getEnv("ZOOM_ACCOUNT_ID", ""),
		ZoomClientID:     getEnv("ZOOM_CLIENT_ID", ""),
		ZoomClientSecret: getEnv("ZOOM_CLIENT_SECRET", ""),

		CalendarClientID:     getEnv("GOOGLE_CALENDAR_CLIENT_ID", ""),
		CalendarClientSecret: getEnv("GOOGLE_CALENDAR_CLIENT_SECRET", ""),
		CalendarRefreshToken: getEnv("GOOGLE_CALENDAR_REFRESH_TOKEN", ""),
		CalendarID:           getEnv("GOOGLE_CALENDAR_ID", "primary"),

		OpenAIKey: getEnv("OPENAI_API_KEY", ""),
		AIModel:   getEnv("AI_MODEL", ""),
		AIBaseURL: getEnv("AI_BASE_URL", ""),

		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required for signing access tokens")
	}

	return cfg, nil
}

// TokenTTL returns the configured access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
