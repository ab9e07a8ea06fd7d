package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Export pipeline configuration
	MaxExportWorkers   int
	ExportDir          string
	CaptureSettleDelay time.Duration

	// Image generation configuration
	HFAPIKey  string
	HFModelID string
	HFTimeout time.Duration
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 120)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Export pipeline configuration
		MaxExportWorkers:   getEnvInt("MAX_EXPORT_WORKERS", 2),
		ExportDir:          getEnvString("EXPORT_DIR", "exports"),
		CaptureSettleDelay: time.Duration(getEnvInt("CAPTURE_SETTLE_MS", 100)) * time.Millisecond,

		// Image generation configuration
		HFAPIKey:  os.Getenv("HF_API_KEY"),
		HFModelID: getEnvString("HF_MODEL_ID", "stabilityai/stable-diffusion-2"),
		HFTimeout: time.Duration(getEnvInt("HF_TIMEOUT", 60)) * time.Second,
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if optional configuration values are set and
// logs warnings if they're missing
func validateConfig(config *Config) {
	// The invoice pipeline works without a Hugging Face key; only the
	// optional image generation endpoint needs it
	if config.HFAPIKey == "" {
		log.Println("Warning: No Hugging Face API key provided. Image generation requests will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
