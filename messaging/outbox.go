package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tournaments/metrics"
	"tournaments/repositories"
)

// Dispatcher — фоновый дренаж outbox-таблицы: читает неопубликованные
// события, синхронно отправляет их в брокер и помечает опубликованными.
// Падение между отправкой и пометкой даёт повторную доставку, поэтому
// семантика — at-least-once.
type Dispatcher struct {
	outbox    repositories.OutboxRepository
	publisher EventPublisher
	hub       *Hub
	metrics   *metrics.Metrics
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewDispatcher(
	outbox repositories.OutboxRepository,
	publisher EventPublisher,
	hub *Hub,
	m *metrics.Metrics,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *Dispatcher {
	return &Dispatcher{
		outbox:    outbox,
		publisher: publisher,
		hub:       hub,
		metrics:   m,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run крутится до отмены контекста. Один прогон сразу на старте, дальше по
// тикеру (как планировщик статусов в cmd/main.go).
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	if err := d.Drain(ctx); err != nil {
		d.logger.Error("outbox: initial drain failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Drain(ctx); err != nil {
				d.logger.Error("outbox: drain failed", slog.Any("error", err))
			}
		}
	}
}

// Drain публикует до batchSize событий. Ошибка публикации оставляет строку
// на следующий прогон; порядок внутри subjectId сохраняется сортировкой по
// created_at.
func (d *Dispatcher) Drain(ctx context.Context) error {
	events, err := d.outbox.ListUnpublished(ctx, d.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list unpublished events: %w", err)
	}

	for _, event := range events {
		if err := d.publisher.Publish(ctx, event.SubjectID, event.Topic); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
		}
		if err := d.outbox.MarkPublished(ctx, event.ID); err != nil {
			return fmt.Errorf("failed to mark event %s published: %w", event.ID, err)
		}

		if d.metrics != nil {
			d.metrics.OutboxPublishedTotal.Inc()
		}
		if d.hub != nil {
			d.hub.BroadcastEvent(event)
		}
	}

	if d.metrics != nil {
		pending, err := d.outbox.CountUnpublished(ctx)
		if err != nil {
			d.logger.Warn("outbox: failed to count pending events", slog.Any("error", err))
		} else {
			d.metrics.OutboxPending.Set(float64(pending))
		}
	}

	return nil
}
