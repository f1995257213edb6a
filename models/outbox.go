package models

import "time"

// OutboxEvent — уведомление об изменении домена, записанное в той же
// транзакции, что и сам документ, и ожидающее доставки в брокер.
type OutboxEvent struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subjectId"`
	Topic       string     `json:"topic"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"-"`
}
