package config

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds the HTTP API settings read from the environment
type ServerConfig struct {
	Port              string
	AllowedOrigins    []string
	LogLevel          slog.Level
	GinMode           string
	RegulatoryFile    string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// LoadServerConfig reads the optional .env files then the process environment
func LoadServerConfig(envFiles ...string) ServerConfig {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return ServerConfig{
		Port:              getenv("PORT", "8080"),
		AllowedOrigins:    splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:          parseLevel(getenv("LOG_LEVEL", "info")),
		GinMode:           getenv("GIN_MODE", "release"),
		RegulatoryFile:    os.Getenv("REGULATORY_FILE"),
		ReadHeaderTimeout: parseDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Addr is the listen address for the configured port
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(env string, def time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
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
