package config

import (
	"os"
	"strings"
)

type Config struct {
	ListenAddr   string
	DatabaseURL  string
	DatabaseName string
	CORSOrigins  []string
	LogLevel     string
	LogFile      string
}

func Load() *Config {
	port := getEnv("PORT", "8000")
	return &Config{
		ListenAddr:   ":" + port,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		DatabaseName: getEnv("DATABASE_NAME", ""),
		CORSOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}
}

// DatabaseURLSet and DatabaseNameSet report configuration presence without
// exposing the values.
func (c *Config) DatabaseURLSet() bool  { return c.DatabaseURL != "" }
func (c *Config) DatabaseNameSet() bool { return c.DatabaseName != "" }

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
