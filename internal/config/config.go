package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// Настройки для MinIO (S3-совместимое хранилище изображений)
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`

	// Очередь каскадных удалений
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"cascade_tasks"`
	}

	// Redis для хранения сессий
	RedisAddr     string        `env:"REDIS_ADDR,required"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	// Значения по умолчанию для необязательных параметров
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	// Сессия продлевается на каждый запрос (rolling)
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 10 * time.Minute
	}

	return &cfg, nil
}
