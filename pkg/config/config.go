package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds the service configuration
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	HTTPPort    string

	Store         string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBLockTimeout time.Duration

	JWTSecret string

	KafkaBrokers []string
	KafkaGroupID string

	RedisAddr     string
	ScopeCacheTTL time.Duration

	JaegerEndpoint string
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "field-inventory"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8082"),

		Store:         getEnv("STORE", StorePostgres),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "inventorydb"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBLockTimeout: getDuration("DB_LOCK_TIMEOUT", 5*time.Second),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "field-inventory"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		ScopeCacheTTL: getDuration("SCOPE_CACHE_TTL", 30*time.Second),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// IsDevelopment checks if the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("5s") or whole seconds ("5")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
