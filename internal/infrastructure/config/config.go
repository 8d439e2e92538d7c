package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DBPath          string

	// Generation service. An empty API key puts the orchestrator in
	// disabled mode: static questions, zero scores.
	GeminiAPIKey      string
	GeminiModel       string
	GeminiMinInterval time.Duration // throttle window between upstream calls
	GeminiMaxRetries  int           // retries on rate-limit rejections
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:     getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:   getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBPath:            getenvDefault("DB_PATH", "visionhire.db"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiMinInterval: getDurationDefault("GEMINI_MIN_INTERVAL", 1500*time.Millisecond),
		GeminiMaxRetries:  getIntDefault("GEMINI_MAX_RETRIES", 3),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}
