package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tournaments/models"
)

// OutboxRepository хранит события, ожидающие публикации в брокер.
// Enqueue вызывается делегатами в той же транзакции, что и запись документа;
// остальные методы использует фоновый диспетчер.
type OutboxRepository interface {
	Enqueue(ctx context.Context, exec SQLExecutor, subjectID, topic string) error
	ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, eventID string) error
	CountUnpublished(ctx context.Context) (int, error)
}

type postgresOutboxRepository struct {
	db *sql.DB
}

func NewPostgresOutboxRepository(db *sql.DB) OutboxRepository {
	return &postgresOutboxRepository{db: db}
}

func (r *postgresOutboxRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOutboxRepository) Enqueue(ctx context.Context, exec SQLExecutor, subjectID, topic string) error {
	query := `INSERT INTO outbox_events (id, subject_id, topic) VALUES ($1, $2, $3)`

	_, err := r.executor(exec).ExecContext(ctx, query, uuid.NewString(), subjectID, topic)
	return err
}

func (r *postgresOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	query := `
		SELECT id, subject_id, topic, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.OutboxEvent, 0)
	for rows.Next() {
		var event models.OutboxEvent
		if scanErr := rows.Scan(&event.ID, &event.SubjectID, &event.Topic, &event.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *postgresOutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	query := `UPDATE outbox_events SET published_at = now() WHERE id = $1 AND published_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotFound)
}

func (r *postgresOutboxRepository) CountUnpublished(ctx context.Context) (int, error) {
	query := `SELECT count(*) FROM outbox_events WHERE published_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
