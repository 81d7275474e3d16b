package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port             string
	MongoURI         string
	DBName           string
	JWTSecret        string
	BaseURL          string
	ResendAPIKey     string
	FromEmail        string
	ContactInbox     string
	RedisURL         string
	ContactRateLimit string
	TrustedProxies   []string
	AllowedOrigins   []string
	LogFormat        string
	Debug            bool
}

// Load reads configuration from the environment, after loading .env if one exists.
// Missing MongoDB or JWT settings are not an error: the server starts without the
// per-user document routes.
func Load() *Config {
	// .env is optional; in production the variables are set directly
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "4000"),
		MongoURI:         getEnv("MONGODB_URI", ""),
		DBName:           getEnv("DB_NAME", "ecolife"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		BaseURL:          getEnv("BASE_URL", ""),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		FromEmail:        getEnv("FROM_EMAIL", "EcoLife <hello@ecolife.local>"),
		ContactInbox:     getEnv("CONTACT_INBOX", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		ContactRateLimit: getEnv("CONTACT_RATE_LIMIT", "10-M"),
		TrustedProxies:   getEnvList("TRUSTED_PROXIES", nil),
		AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		Debug:            getEnvBool("DEBUG", false),
	}
}

// DocumentsEnabled reports whether sign-in and per-user documents can be served.
func (c *Config) DocumentsEnabled() bool {
	return c.MongoURI != "" && c.JWTSecret != ""
}

// MissingForDocuments names the unset variables that keep DocumentsEnabled false.
func (c *Config) MissingForDocuments() []string {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
