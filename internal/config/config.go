package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-provided settings for the chat server.
type Config struct {
	Port          string
	UserDataFile  string
	LogLevel      string
	AllowedOrigin string
}

// LoadConfig reads configuration from a .env file if present, falling back
// to the real environment and finally to defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "3000"),
		UserDataFile:  getEnv("USER_DATA_FILE", "user_data.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
