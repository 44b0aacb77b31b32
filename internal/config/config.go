package config

import (
	"os"
	"strings"

	"github.com/daniilabradorr/diaflow/internal/logger"
)

type Config struct {
	TelegramToken string
	APIBaseURL    string
	Redis         RedisConfig
	Logger        LoggerConfig
}

// RedisConfig selects the durable session store. Empty Host means
// session tokens are kept in memory only.
type RedisConfig struct {
	Host string
	Port string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIBaseURL:    getEnvOrDefault("DIAFLOW_API_URL", "http://localhost:8000"),
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}
