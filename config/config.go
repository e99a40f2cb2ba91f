// Package config holds runtime settings loaded from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config groups all tunables for the scraper, the analyzer API and
// the Ollama-backed advisory agent.
type Config struct {
	Port    string
	DataDir string

	// Scraper settings
	UserAgent        string
	RequestTimeout   time.Duration
	MaxContentLength int

	// Ollama settings
	OllamaBaseURL string
	DefaultModel  string
	Temperature   float64
	NumPredict    int
}

// Load reads .env files and environment variables and returns the
// effective configuration. Missing values fall back to defaults.
func Load() *Config {
	// Try .env.development first (local development), then .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8082"),
		DataDir:          getEnv("DATA_DIR", "data"),
		UserAgent:        getEnv("USER_AGENT", "SEO-Analyzer-Bot/1.0"),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT", 30)) * time.Second,
		MaxContentLength: getEnvInt("MAX_CONTENT_LENGTH", 10000),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		DefaultModel:     getEnv("DEFAULT_MODEL", "gemma3:latest"),
		Temperature:      getEnvFloat("AGENT_TEMPERATURE", 0.1),
		NumPredict:       getEnvInt("NUM_PREDICT", 512),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid value for %s: %q, using default %g", key, v, fallback)
	}
	return fallback
}
