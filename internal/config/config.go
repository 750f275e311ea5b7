package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default prompt wording, matching the deployed assistant. The phrasing is
// configuration, not contract; deployments localize it via env vars.
const (
	defaultPromptIntro = "You are a professional real estate assistant."
	defaultPromptStyle = "Reply in Arabic, short, friendly, ask next step (contact/visit)."
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort           string
	CollectAPIKey      string // pre-shared request secret; empty means the collect endpoint rejects everything with 500
	GeminiAPIKey       string // empty degrades the AI step to a fixed "not configured" reply
	GeminiModel        string
	DatabaseURL        string // empty degrades persistence to a no-op with saved=false
	PropertyMatchLimit int
	PromptIntro        string
	PromptStyle        string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load() // Loads .env from the current directory or parent dirs
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	// None of the secrets are fatal at load time: a missing COLLECT_API_KEY
	// surfaces as 500s from the credential gate, and missing Gemini/store
	// credentials degrade those steps instead of blocking startup.
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CollectAPIKey:      getEnv("COLLECT_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-pro"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		PropertyMatchLimit: getEnvInt("PROPERTY_MATCH_LIMIT", 5),
		PromptIntro:        getEnv("PROMPT_INTRO", defaultPromptIntro),
		PromptStyle:        getEnv("PROMPT_STYLE", defaultPromptStyle),
	}

	if cfg.CollectAPIKey == "" {
		log.Println("WARN: COLLECT_API_KEY is not set; every collect request will be rejected with 500.")
	}

	log.Printf("Loaded config: Port=%s, Model=%s, MatchLimit=%d, APIKey=%t, GeminiKey=%t, DB=%t",
		cfg.HTTPPort, cfg.GeminiModel, cfg.PropertyMatchLimit,
		cfg.CollectAPIKey != "", cfg.GeminiAPIKey != "", cfg.DatabaseURL != "")

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %d. Error: %v", key, value, fallback, err)
		return fallback
	}
	return n
}
