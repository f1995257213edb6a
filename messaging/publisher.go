package messaging

import "context"

// EventPublisher сообщает потребителям о зафиксированном изменении домена.
// Подтверждения доставки вызывающему не видны; редоставка возможна,
// потребители дедуплицируют по subjectId.
type EventPublisher interface {
	Publish(ctx context.Context, subjectID, topic string) error
}
