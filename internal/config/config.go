package config

import (
	"fmt"
	"os"
	"strconv"
)

type AppConfig struct {
	// Server
	HTTPHost string
	HTTPPort string

	// PostgreSQL
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBPoolMaxConns int32

	// Redis
	RedisAddr string
	RedisPass string

	// Rate limiting (requests per minute per client)
	RateLimitRPM int64
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPHost: getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPass:         getEnv("DB_PASS", ""),
		DBName:         getEnv("DB_NAME", "streambox"),
		DBPoolMaxConns: int32(getEnvInt("DB_POOL_MAX_CONNS", 10)),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		RateLimitRPM: int64(getEnvInt("RATE_LIMIT_RPM", 300)),
	}
}

// HTTPAddr returns the host:port the HTTP server binds to.
func (c AppConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.HTTPHost, c.HTTPPort)
}

// DatabaseURL assembles the PostgreSQL connection string.
func (c AppConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// --- Helper functions ---

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
	}
	return fallback
}
