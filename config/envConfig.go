package database

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	SecretKey    string
	UploadsDir   string
	AssetBackend string
	GCSBucket    string
	Env          string
}

// Load reads .env (when present) and then the process environment.
func Load(files ...string) (*Config, error) {
	// A missing .env is fine in containers where the environment is injected.
	_ = godotenv.Load(files...)

	cfg := &Config{
		Port:         getEnv("PORT", "8000"),
		MongoURI:     os.Getenv("DB"),
		DBName:       getEnv("DB_NAME", "NutritionCoaching"),
		SecretKey:    os.Getenv("SECRET_KEY"),
		UploadsDir:   getEnv("UPLOADS_DIR", "public/uploads"),
		AssetBackend: getEnv("ASSET_BACKEND", "local"),
		GCSBucket:    os.Getenv("GCS_BUCKET"),
		Env:          getEnv("APP_ENV", "development"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("DB is not set in the environment variables")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is not set in the environment variables")
	}
	if cfg.AssetBackend == "gcs" && cfg.GCSBucket == "" {
		return nil, errors.New("GCS_BUCKET is required when ASSET_BACKEND=gcs")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
