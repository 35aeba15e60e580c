package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ProgressCacheTTL time.Duration

	AssetBackend  string // local or gcs
	AssetDir      string
	AssetBaseURL  string
	GCSBucketName string
	CDNDomain     string

	CertRendererURL     string
	CertRendererTimeout time.Duration
	CertTemplateKey     string
	CertFontPath        string
	CertLayout          string // JSON field coordinates

	AttemptSweepSchedule string
	AttemptSweepGrace    time.Duration
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		ProgressCacheTTL: getEnvDuration("PROGRESS_CACHE_TTL", 24*time.Hour),

		AssetBackend:  getEnv("ASSET_BACKEND", "local"),
		AssetDir:      getEnv("ASSET_DIR", "./uploads"),
		AssetBaseURL:  getEnv("ASSET_BASE_URL", "/uploads"),
		GCSBucketName: getEnv("GCS_BUCKET_NAME", ""),
		CDNDomain:     getEnv("CDN_DOMAIN", ""),

		CertRendererURL:     getEnv("CERT_RENDERER_URL", ""),
		CertRendererTimeout: getEnvDuration("CERT_RENDERER_TIMEOUT", 30*time.Second),
		CertTemplateKey:     getEnv("CERT_TEMPLATE_KEY", ""),
		CertFontPath:        getEnv("CERT_FONT_PATH", ""),
		CertLayout:          getEnv("CERT_LAYOUT", ""),

		AttemptSweepSchedule: getEnv("ATTEMPT_SWEEP_SCHEDULE", "@every 1m"),
		AttemptSweepGrace:    getEnvDuration("ATTEMPT_SWEEP_GRACE", 2*time.Minute),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	return AppConfig
}

// IsProduction reports whether APP_ENV selects production logging.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration accepts Go duration syntax ("90s", "24h")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
