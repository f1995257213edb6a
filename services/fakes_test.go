package services

import (
	"context"
	"encoding/json"
	"fmt"

	"tournaments/models"
	"tournaments/repositories"
)

// fakeUnitOfWork выполняет fn без транзакции: in-memory фейкам exec не нужен.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

// fakeRepository — in-memory замена документного репозитория.
type fakeRepository[T repositories.Entity] struct {
	entities map[string]T
	nextID   int

	createErr   error
	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeRepository[T repositories.Entity]() *fakeRepository[T] {
	return &fakeRepository[T]{entities: make(map[string]T)}
}

func (r *fakeRepository[T]) seed(id string, entity T) {
	entity.SetEntityID(id)
	r.entities[id] = entity
}

func (r *fakeRepository[T]) Create(_ context.Context, _ repositories.SQLExecutor, entity T) (string, error) {
	r.createCalls++
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	id := fmt.Sprintf("id-%d", r.nextID)
	entity.SetEntityID(id)
	r.entities[id] = entity
	return id, nil
}

func (r *fakeRepository[T]) ReadByID(_ context.Context, _ repositories.SQLExecutor, id string) (T, error) {
	entity, ok := r.entities[id]
	if !ok {
		var zero T
		return zero, repositories.ErrNotFound
	}
	return entity, nil
}

func (r *fakeRepository[T]) ReadAll(_ context.Context, _ repositories.SQLExecutor) ([]T, error) {
	all := make([]T, 0, len(r.entities))
	for _, entity := range r.entities {
		all = append(all, entity)
	}
	return all, nil
}

func (r *fakeRepository[T]) Update(_ context.Context, _ repositories.SQLExecutor, entity T) (string, error) {
	r.updateCalls++
	id := entity.EntityID()
	if _, ok := r.entities[id]; !ok {
		return "", repositories.ErrNotFound
	}
	r.entities[id] = entity
	return id, nil
}

func (r *fakeRepository[T]) Delete(_ context.Context, _ repositories.SQLExecutor, id string) error {
	r.deleteCalls++
	if _, ok := r.entities[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.entities, id)
	return nil
}

// ExistsByName смотрит на то же поле документа, что и jsonb-запрос.
func (r *fakeRepository[T]) ExistsByName(_ context.Context, _ repositories.SQLExecutor, name string) (bool, error) {
	for _, entity := range r.entities {
		if documentName(entity) == name {
			return true, nil
		}
	}
	return false, nil
}

func documentName(entity any) string {
	raw, err := json.Marshal(entity)
	if err != nil {
		return ""
	}
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return doc.Name
}

type enqueuedEvent struct {
	SubjectID string
	Topic     string
}

// fakeOutbox записывает поставленные в очередь события.
type fakeOutbox struct {
	events     []enqueuedEvent
	enqueueErr error
}

func (o *fakeOutbox) Enqueue(_ context.Context, _ repositories.SQLExecutor, subjectID, topic string) error {
	if o.enqueueErr != nil {
		return o.enqueueErr
	}
	o.events = append(o.events, enqueuedEvent{SubjectID: subjectID, Topic: topic})
	return nil
}

func (o *fakeOutbox) ListUnpublished(_ context.Context, _ int) ([]models.OutboxEvent, error) {
	return nil, nil
}

func (o *fakeOutbox) MarkPublished(_ context.Context, _ string) error { return nil }

func (o *fakeOutbox) CountUnpublished(_ context.Context) (int, error) { return 0, nil }
