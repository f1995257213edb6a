package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

type KafkaPublisherConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher пишет события в один топик Kafka. Ключ записи — subjectId,
// чтобы события одной сущности попадали в одну партицию по порядку.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewKafkaPublisher(cfg KafkaPublisherConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, logger: logger}, nil
}

type eventPayload struct {
	SubjectID string `json:"subjectId"`
	Topic     string `json:"topic"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, subjectID, topic string) error {
	value, err := json.Marshal(eventPayload{SubjectID: subjectID, Topic: topic})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(subjectID),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce %s for %s: %w", topic, subjectID, err)
	}

	p.logger.Debug("event produced",
		slog.String("subject_id", subjectID),
		slog.String("topic", topic),
	)
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
