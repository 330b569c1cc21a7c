package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	GinMode            string
	TaskWebhookURL     string
	ReplyWebhookURL    string
	WebhookBearerToken string
}

func Load() *Config {
	// Missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "platform"),
		DBPassword:         getEnv("DB_PASSWORD", "platform"),
		DBName:             getEnv("DB_NAME", "internal_platform"),
		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		TaskWebhookURL:     getEnv("N8N_TASK_WEBHOOK_URL", "https://webhook.agenciafocomkt.com.br/webhook/af4da324-7f87-4c24-92f7-59d162e6a05e"),
		ReplyWebhookURL:    getEnv("N8N_REPLY_WEBHOOK_URL", "https://webhook.agenciafocomkt.com.br/webhook/replies"),
		WebhookBearerToken: getEnv("N8N_WEBHOOK_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
