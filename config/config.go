package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL     string
	ServerPort      int
	KafkaBrokers    []string
	KafkaTopic      string
	OutboxInterval  time.Duration
	OutboxBatchSize int
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	brokersStr := os.Getenv("KAFKA_BROKERS")
	if brokersStr == "" {
		brokersStr = "localhost:9092"
	}
	brokers := strings.Split(brokersStr, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "tournament-events"
	}

	intervalStr := os.Getenv("OUTBOX_POLL_INTERVAL")
	if intervalStr == "" {
		intervalStr = "2s"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL environment variable: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", interval)
	}

	batchStr := os.Getenv("OUTBOX_BATCH_SIZE")
	if batchStr == "" {
		batchStr = "100"
	}
	batch, err := strconv.Atoi(batchStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_BATCH_SIZE environment variable: %w", err)
	}
	if batch < 1 {
		return nil, fmt.Errorf("OUTBOX_BATCH_SIZE must be at least 1, got %d", batch)
	}

	cfg := &Config{
		DatabaseURL:     dbURL,
		ServerPort:      port,
		KafkaBrokers:    brokers,
		KafkaTopic:      topic,
		OutboxInterval:  interval,
		OutboxBatchSize: batch,
	}

	return cfg, nil
}
