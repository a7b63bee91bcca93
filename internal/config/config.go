package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	// Server
	Port        string
	Environment string
	UploadsDir  string

	// Kiosk client
	DataDir   string
	UploadURL string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		UploadsDir:  getEnv("UPLOADS_DIR", "uploads"),

		DataDir:   getEnv("KIOSK_DATA_DIR", defaultDataDir()),
		UploadURL: getEnv("UPLOAD_URL", "http://localhost:3000"),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".photo-print-orders"
	}
	return filepath.Join(home, ".photo-print-orders")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
