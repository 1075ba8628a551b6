package config

import (
	"fmt"
	"os"
)

// Config holds everything read from the environment. It is constructed once
// in main and passed down; nothing else reads env vars.
type Config struct {
	Port        string
	DatabaseURL string
	AMQPURL     string
	LogLevel    string
}

// Load reads the process environment. DATABASE_URL wins when set; otherwise
// the URL is assembled from the discrete DB_* variables.
func Load() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AMQPURL:     os.Getenv("AMQP_URL"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			os.Getenv("DB_NAME"),
		)
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
