package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBDSN         string
	RedisEnabled  bool
	RedisAddr     string
	SessionSecret string
	GinMode       string
	LogLevel      string
	AppHost       string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "studyhub"),
		DBPassword:    getEnv("DB_PASSWORD", "studyhub"),
		DBName:        getEnv("DB_NAME", "studyhub"),
		DBDSN:         getEnv("DB_DSN", ""),
		RedisEnabled:  getEnv("REDIS_ENABLED", "false") == "true",
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AppHost:       getEnv("APP_HOST", "http://localhost:8080"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		MailFrom:      getEnv("MAIL_FROM", "noreply@studyhub.local"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
