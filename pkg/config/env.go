package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Env holds process settings read from the environment
type Env struct {
	DataDir     string
	Addr        string
	ConfigFile  string
	LogLevel    string
	Environment string
	Version     string
}

// LoadEnv reads a .env file when one exists, then the process environment
func LoadEnv() Env {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return Env{
		DataDir:     getEnv("DASHBOARD_DATA_DIR", "data"),
		Addr:        getEnv("DASHBOARD_ADDR", ":8080"),
		ConfigFile:  getEnv("DASHBOARD_CONFIG", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("VERSION", "unknown"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
