// Package config provides configuration for the assistant core.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/casaflow/aicore/domain"
)

// Config holds the assistant configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Design-profile provider (design/UX oriented reasoning)
	DesignProviderURL string
	DesignProviderKey string
	DesignProviderID  string
	DesignModel       string

	// Logic-profile provider (logic/business-rule reasoning)
	LogicProviderURL string
	LogicProviderKey string
	LogicProviderID  string
	LogicModel       string

	// MixedDefault selects the adapter for mixed intent without collaboration.
	MixedDefault domain.Intent

	// Timeouts
	LLMTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables. A local .env file,
// if present, is loaded first.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:aicore.db?cache=shared&mode=rwc"),
		DesignProviderURL: getEnv("DESIGN_PROVIDER_URL", "https://api.openai.com"),
		DesignProviderKey: getEnv("DESIGN_PROVIDER_KEY", ""),
		DesignProviderID:  getEnv("DESIGN_PROVIDER_ID", "design"),
		DesignModel:       getEnv("DESIGN_MODEL", "gpt-4o-mini"),
		LogicProviderURL:  getEnv("LOGIC_PROVIDER_URL", "https://api.openai.com"),
		LogicProviderKey:  getEnv("LOGIC_PROVIDER_KEY", ""),
		LogicProviderID:   getEnv("LOGIC_PROVIDER_ID", "logic"),
		LogicModel:        getEnv("LOGIC_MODEL", "gpt-4o"),
		MixedDefault:      domain.Intent(getEnv("MIXED_DEFAULT", string(domain.IntentDesign))),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
