package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all environment-derived settings. Every value is read
// once at startup so handlers never touch the environment directly.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	GoogleAPIKey   string
	UploadDir      string
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file is
// loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		DBName:       getEnv("DB_NAME", "places_db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads/images"),
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
