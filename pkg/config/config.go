package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	AuthorizationServiceURL string
	StorageBucket           string
	GoogleCredentialsPath   string
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "y"),
		AuthorizationServiceURL: getEnv("AUTHORIZATION_SERVICE_URL", ""),
		StorageBucket:           getEnv("GCLOUD_STORAGE_BUCKET", ""),
		GoogleCredentialsPath:   getEnv("GOOGLE_CREDENTIALS_PATH", ""),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}
	if cfg.AuthorizationServiceURL == "" {
		return nil, fmt.Errorf("AUTHORIZATION_SERVICE_URL environment variable not set")
	}
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("GCLOUD_STORAGE_BUCKET environment variable not set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
