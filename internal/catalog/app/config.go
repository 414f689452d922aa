package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 5000)

	DatabaseDriver string // Optional: mongo, sqlite or postgres (default: mongo)
	MongoURI       string // Required for mongo
	MongoDatabase  string // Optional: mongo database name (default: BookWormDb)
	SQLiteFile     string // Optional: path to SQLite database file (default: ./bookworm.db)
	PostgresDSN    string // Required for postgres

	MediaDriver       string // Optional: s3 or local (default: local)
	MediaDir          string // Optional: local upload directory (default: ./media)
	MediaBaseURL      string // Optional: public origin for local media URLs (default: http://localhost:PORT)
	S3Bucket          string
	S3Region          string // Optional (default: us-east-1)
	S3Endpoint        string // Optional: S3 compatible endpoint (MinIO, R2)
	S3AccessKeyID     string // Optional: static credentials, otherwise the default AWS chain
	S3SecretAccessKey string
	S3PublicBaseURL   string

	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	BootstrapToken string // Optional: if set, required to perform bootstrap

	AccessTokenTTL  time.Duration // Optional (default: 50m)
	RefreshTokenTTL time.Duration // Optional (default: 20 days)

	CookieSecure bool   // Optional (default: true, always true in prod)
	CookieDomain string // Optional
	CORSOrigins  string // Optional: comma separated list of allowed origins

	// RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_{REQUESTS,WINDOW_SEC,BURST}
	// and RATELIMIT_TRUST_PROXY
	RateLimits httpx.RateLimits

	MaxUploadBytes      int64         // Optional: multipart body limit (default: 32 MiB)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already
// set in the environment win.
func LoadConfig() Config {
	_ = godotenv.Load()

	port := getEnvIntOrDefault("PORT", 5000)

	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      port,

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "mongo"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDatabase:  getEnvOrDefault("MONGO_DATABASE", "BookWormDb"),
		SQLiteFile:     getEnvOrDefault("SQLITE_FILE", "bookworm.db"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),

		MediaDriver:       getEnvOrDefault("MEDIA_DRIVER", "local"),
		MediaDir:          getEnvOrDefault("MEDIA_DIR", "media"),
		MediaBaseURL:      getEnvOrDefault("MEDIA_BASE_URL", "http://localhost:"+strconv.Itoa(port)),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),

		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 50*time.Minute),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", 20*24*time.Hour),

		CookieSecure: getEnvBoolOrDefault("COOKIE_SECURE", true),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
		CORSOrigins:  os.Getenv("CORS_ORIGINS"),

		RateLimits: httpx.RateLimitsFromEnv(),

		MaxUploadBytes:      int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 32<<20)),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
