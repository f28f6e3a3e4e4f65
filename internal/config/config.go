package config

import (
	"os"
	"strconv"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	AdminUser     string
	AdminPassword string

	ListenAddr string

	// GeminiAPIKey authenticates commentary requests against the Gemini
	// API. If empty, the commentary endpoint reports the feature as
	// unconfigured instead of calling out.
	GeminiAPIKey string
	GeminiModel  string

	// MaxUploadMB caps the size of a single uploaded workbook.
	MaxUploadMB int
}

// Load reads configuration from environment variables and applies
// defaults for anything unset.
func Load() *Config {
	cfg := &Config{
		AdminUser:     getenv("APP_ADMIN_USER", "admin"),
		AdminPassword: getenv("APP_ADMIN_PASSWORD", "changeme"),
		ListenAddr:    getenv("APP_LISTEN_ADDR", ":8080"),
		GeminiAPIKey:  os.Getenv("APP_GEMINI_API_KEY"),
		GeminiModel:   getenv("APP_GEMINI_MODEL", "gemini-2.0-flash"),
		MaxUploadMB:   20,
	}

	if v := os.Getenv("APP_MAX_UPLOAD_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			cfg.MaxUploadMB = mb
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
