package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	AppEnv        string // "development" or "production"
	LogLevel      string
	CORSOrigin    string
	TempUploadDir string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Login/register throttling.
	AuthRateInterval time.Duration
	AuthRateBurst    int
}

// Load loads configuration from environment variables or sets defaults.
// A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	accessExpiry, err := getEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshExpiry, err := getEnvDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour)
	if err != nil {
		return nil, err
	}
	rateInterval, err := getEnvDuration("AUTH_RATE_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	rateBurst, err := strconv.Atoi(getEnv("AUTH_RATE_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_BURST: %w", err)
	}

	cfg := &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./vidtube.db"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		TempUploadDir: getEnv("TEMP_UPLOAD_DIR", "./public/temp"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiry: refreshExpiry,

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		AuthRateInterval: rateInterval,
		AuthRateBurst:    rateBurst,
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings
// (Secure cookies, among others).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
