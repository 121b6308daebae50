package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr      string
	PublicBaseURL string

	// Datastores
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SMTPFromName string
	SMTPSecure   bool

	// SMS gateway
	SMSGatewayURL string
	SMSAPIKey     string
	SMSSender     string

	// WhatsApp
	WhatsAppStorePath string
	WhatsAppLogLevel  string

	// Pipeline
	WorkerConcurrency    int
	MonitorInterval      time.Duration
	MonitorGrace         time.Duration
	DefaultDelayWhatsApp int
	DefaultDelaySMS      int
	TokenTTL             time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASS", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "465"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Order Bot"),
		SMTPSecure:   strings.ToLower(getEnv("SMTP_SECURE", "true")) == "true",

		SMSGatewayURL: getEnv("SMS_GATEWAY_URL", ""),
		SMSAPIKey:     getEnv("SMS_API_KEY", ""),
		SMSSender:     getEnv("SMS_SENDER", "ORDERBOT"),

		WhatsAppStorePath: getEnv("WHATSAPP_STORE_PATH", "whatsapp.db"),
		WhatsAppLogLevel:  getEnv("WHATSAPP_LOG_LEVEL", "INFO"),

		WorkerConcurrency:    getEnvInt("WORKER_CONCURRENCY", 4),
		MonitorInterval:      getEnvDuration("MONITOR_INTERVAL", 30*time.Second),
		MonitorGrace:         getEnvDuration("MONITOR_GRACE", 5*time.Minute),
		DefaultDelayWhatsApp: getEnvInt("DEFAULT_DELAY_WHATSAPP_MIN", 2),
		DefaultDelaySMS:      getEnvInt("DEFAULT_DELAY_SMS_MIN", 5),
		TokenTTL:             getEnvDuration("CONFIRMATION_TOKEN_TTL", 48*time.Hour),
	}
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
