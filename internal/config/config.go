package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Social sign-on audiences
	GoogleClientIDs string
	AppleBundleIDs  string

	// Recommendation estimator (ML service)
	MLAPIURL  string
	MLTimeout time.Duration

	// USDA FoodData Central
	USDAAPIKey string
	USDAAPIURL string

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port         string
	CORSOrigins  string
	AppURL       string
	UploadDir    string
	TimeZone     string
	RedisURL     string
	RateLimitMax int

	// Observability
	LogLevel         string
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "nutritrack_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		GoogleClientIDs: getEnv("GOOGLE_CLIENT_IDS", ""),
		AppleBundleIDs:  getEnv("APPLE_BUNDLE_IDS", ""),

		MLAPIURL:  getEnv("ML_API_URL", "http://localhost:8000"),
		MLTimeout: parseDuration(getEnv("ML_TIMEOUT", "5s"), 5*time.Second),

		USDAAPIKey: getEnv("USDA_API_KEY", ""),
		USDAAPIURL: getEnv("USDA_API_URL", "https://api.nal.usda.gov"),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:         getEnv("PORT", "3000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		AppURL:       getEnv("APP_URL", ""),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		TimeZone:     getEnv("TIMEZONE", "UTC"),
		RedisURL:     getEnv("REDIS_URL", ""),
		RateLimitMax: parseInt(getEnv("RATE_LIMIT_MAX", "60"), 60),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location resolves TimeZone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		slog.Warn("unknown TIMEZONE, using UTC", "timezone", c.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}

// PublicBaseURL is the prefix used when building absolute upload URLs.
func (c *Config) PublicBaseURL() string {
	if c.AppURL != "" {
		return strings.TrimRight(c.AppURL, "/")
	}
	return "http://localhost:" + c.Port
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// SplitCSV splits a comma separated setting, dropping blanks.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
