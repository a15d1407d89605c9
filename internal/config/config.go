package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string // CHIME_DATABASE_URL (required)
	HTTPAddr    string // CHIME_HTTP_ADDR (default ":8080")
	NATSURL     string // CHIME_NATS_URL (optional, empty = no events)
	AuthToken   string // CHIME_AUTH_TOKEN (optional, empty = auth disabled)

	// Audit export settings
	SyncInterval   time.Duration // CHIME_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // CHIME_SYNC_S3_BUCKET (enables S3 export when set)
	SyncS3Endpoint string        // CHIME_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // CHIME_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // CHIME_SYNC_S3_KEY (default "chime/export.jsonl")
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		DatabaseURL:    os.Getenv("CHIME_DATABASE_URL"),
		HTTPAddr:       envOrDefault("CHIME_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("CHIME_NATS_URL"),
		AuthToken:      os.Getenv("CHIME_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("CHIME_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("CHIME_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("CHIME_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("CHIME_SYNC_S3_KEY", "chime/export.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CHIME_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("CHIME_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("CHIME_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
