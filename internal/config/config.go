package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI     string
	HTTPAddr        string
	JWTSecret       string
	TokenTTL        time.Duration
	BlobServiceURL  string
	AvatarContainer string
	AdvanceInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:     os.Getenv("DATABASE_URI"),
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenTTL:        getDurationOrDefault("TOKEN_TTL", 24*time.Hour),
		BlobServiceURL:  os.Getenv("BLOB_SERVICE_URL"),
		AvatarContainer: getEnvOrDefault("AVATAR_CONTAINER", "avatars"),
		AdvanceInterval: getDurationOrDefault("ADVANCE_INTERVAL", time.Hour),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
