package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigin  string
	AdminToken  string
	BaseURL     string
}

// Load reads configuration from the environment, with a best-effort .env file
// for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://confess.db"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),
		BaseURL:     getEnv("BASE_URL", "https://confess1.vercel.app"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
