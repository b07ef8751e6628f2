package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"instrument-inventory/logger"
)

// LoadEnv loads .env if present. Missing file is fine in deployed
// environments where vars come from the platform.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded, using process environment", zap.Error(err))
	}
}

// Get returns the env var or a default.
func Get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
