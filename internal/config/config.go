package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string
	SupabaseAccessToken    string

	// Database (optional direct connection; REST is used when empty)
	DatabaseURL string

	// Local storage
	DataDir string

	// Sync
	SyncInterval              time.Duration
	ConnectivityCheckInterval time.Duration
	PhotoMaxRetries           int
	PhotoRetryBaseDelay       time.Duration
	PhotoRetryMaxDelay        time.Duration

	// Server
	Port        string
	Environment string
	LogLevel    string
}

// Load reads the configuration from the environment, after applying a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "job-photos"),
		SupabaseAccessToken:    getEnv("SUPABASE_ACCESS_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		DataDir: getEnv("DATA_DIR", filepath.Join(xdg.DataHome, "fieldsync")),

		Port:        getEnv("PORT", "8787"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SyncInterval, err = getDuration("SYNC_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ConnectivityCheckInterval, err = getDuration("CONNECTIVITY_CHECK_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PhotoRetryBaseDelay, err = getDuration("PHOTO_RETRY_BASE_DELAY", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PhotoRetryMaxDelay, err = getDuration("PHOTO_RETRY_MAX_DELAY", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PhotoMaxRetries, err = getInt("PHOTO_MAX_RETRIES", 5); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.SupabaseAccessToken == "" {
		return fmt.Errorf("SUPABASE_ACCESS_TOKEN is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}
	if c.ConnectivityCheckInterval <= 0 {
		return fmt.Errorf("CONNECTIVITY_CHECK_INTERVAL must be positive")
	}
	if c.PhotoMaxRetries < 1 {
		return fmt.Errorf("PHOTO_MAX_RETRIES must be at least 1")
	}
	if c.PhotoRetryMaxDelay < c.PhotoRetryBaseDelay {
		return fmt.Errorf("PHOTO_RETRY_MAX_DELAY must not be shorter than PHOTO_RETRY_BASE_DELAY")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
