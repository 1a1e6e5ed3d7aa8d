package config

import (
	"os"
	"strings"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   database.Config

	// Base URL of this service's own query surface. The background jobs
	// that act as an external client go through it.
	APIBaseURL string

	HeartbeatLogPath string
	LowStockLogPath  string
	RemindersLogPath string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnvDefault("APP_PORT", "8000"),
		DB: database.Config{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
		APIBaseURL:       getEnvDefault("API_BASE_URL", "http://localhost:8000"),
		HeartbeatLogPath: getEnvDefault("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
		LowStockLogPath:  getEnvDefault("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt"),
		RemindersLogPath: getEnvDefault("ORDER_REMINDERS_LOG", "/tmp/order_reminders_log.txt"),
		KafkaBrokers:     splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getEnvDefault("KAFKA_TOPIC_ORDERS", "crm.orders"),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
