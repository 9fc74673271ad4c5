package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	cache "github.com/eventdekho/eventdekho-api/cache"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	MongoURI string
	DBName   string

	JWTSecret string
	JWTExpiry time.Duration

	// Virtual admin: logs in without a users document.
	AdminEmail    string
	AdminPassword string

	CORSOrigins []string
	ClientURL   string

	SMTP utils.SMTPConfig

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SentryDSN string

	// Runtime dependencies, wired in main.
	Store  *store.Store
	Mailer utils.Mailer
	Media  utils.MediaStore
	Cache  *cache.Client
	Now    func() time.Time
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "error", err)
	}

	return &Config{
		Port:     getEnv("PORT", "5000"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "eventdekho"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 30*24*time.Hour),

		AdminEmail:    strings.ToLower(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CORSOrigins: parseCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		ClientURL:   strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:3000"), "/"),

		SMTP: utils.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("EMAIL_FROM", os.Getenv("SMTP_USER")),
		},

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SentryDSN: os.Getenv("SENTRY_DSN"),

		Now: time.Now,
	}
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// IsVirtualAdmin reports whether the credentials match the configured admin.
// An unset admin never matches.
func (c *Config) IsVirtualAdmin(email, password string) bool {
	return c.AdminEmail != "" && c.AdminPassword != "" &&
		strings.EqualFold(email, c.AdminEmail) && password == c.AdminPassword
}

func (c *Config) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
