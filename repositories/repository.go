package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound     = errors.New("entity not found")
	ErrNameConflict = errors.New("entity name conflict")
)

// SQLExecutor обобщает *sql.DB и *sql.Tx, чтобы репозиторий мог работать
// внутри внешней транзакции (см. UnitOfWork).
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Entity — агрегат, хранимый как JSON-документ с назначаемым хранилищем id.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
}

// Repository — общий CRUD-порт для документных агрегатов. exec == nil
// выполняет запрос на пуле; *sql.Tx присоединяет запрос к транзакции.
type Repository[T Entity] interface {
	Create(ctx context.Context, exec SQLExecutor, entity T) (string, error)
	ReadByID(ctx context.Context, exec SQLExecutor, id string) (T, error)
	ReadAll(ctx context.Context, exec SQLExecutor) ([]T, error)
	Update(ctx context.Context, exec SQLExecutor, entity T) (string, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	ExistsByName(ctx context.Context, exec SQLExecutor, name string) (bool, error)
}

// postgresDocumentRepository реализует Repository один раз для всех таблиц
// вида (id uuid, document jsonb). Конкретные агрегаты подключаются в
// composition root через параметр типа и имя таблицы.
type postgresDocumentRepository[T Entity] struct {
	db        *sql.DB
	table     string
	newEntity func() T
}

func NewPostgresDocumentRepository[T Entity](db *sql.DB, table string, newEntity func() T) Repository[T] {
	return &postgresDocumentRepository[T]{db: db, table: table, newEntity: newEntity}
}

func (r *postgresDocumentRepository[T]) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDocumentRepository[T]) Create(ctx context.Context, exec SQLExecutor, entity T) (string, error) {
	document, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s document: %w", r.table, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (document) VALUES ($1) RETURNING id`, r.table)

	var id string
	if err := r.executor(exec).QueryRowContext(ctx, query, document).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return "", ErrNameConflict
		}
		return "", err
	}
	entity.SetEntityID(id)
	return id, nil
}

func (r *postgresDocumentRepository[T]) ReadByID(ctx context.Context, exec SQLExecutor, id string) (T, error) {
	var zero T
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1::uuid`, r.table)

	var document []byte
	err := r.executor(exec).QueryRowContext(ctx, query, id).Scan(&document)
	if err != nil {
		// Невалидный uuid в тексте запроса означает то же, что и отсутствие строки.
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	entity := r.newEntity()
	if err := json.Unmarshal(document, entity); err != nil {
		return zero, fmt.Errorf("failed to unmarshal %s document %s: %w", r.table, id, err)
	}
	entity.SetEntityID(id)
	return entity, nil
}

func (r *postgresDocumentRepository[T]) ReadAll(ctx context.Context, exec SQLExecutor) ([]T, error) {
	query := fmt.Sprintf(`SELECT id, document FROM %s`, r.table)

	rows, err := r.executor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities := make([]T, 0)
	for rows.Next() {
		var (
			id       string
			document []byte
		)
		if scanErr := rows.Scan(&id, &document); scanErr != nil {
			return nil, scanErr
		}

		entity := r.newEntity()
		if err := json.Unmarshal(document, entity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s document %s: %w", r.table, id, err)
		}
		entity.SetEntityID(id)
		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entities, nil
}

func (r *postgresDocumentRepository[T]) Update(ctx context.Context, exec SQLExecutor, entity T) (string, error) {
	document, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s document: %w", r.table, err)
	}

	// Условный UPDATE: существование подтверждает само хранилище,
	// отдельного чтения перед записью нет.
	query := fmt.Sprintf(`UPDATE %s SET document = $1 WHERE id = $2::uuid RETURNING id`, r.table)

	var id string
	err = r.executor(exec).QueryRowContext(ctx, query, document, entity.EntityID()).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return "", ErrNotFound
		}
		if isUniqueViolation(err) {
			return "", ErrNameConflict
		}
		return "", err
	}
	return id, nil
}

func (r *postgresDocumentRepository[T]) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1::uuid`, r.table)

	result, err := r.executor(exec).ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidUUID(err) {
			return ErrNotFound
		}
		return err
	}

	return checkAffectedRows(result, ErrNotFound)
}

func (r *postgresDocumentRepository[T]) ExistsByName(ctx context.Context, exec SQLExecutor, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE document->>'name' = $1)`, r.table)

	var exists bool
	if err := r.executor(exec).QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// invalid_text_representation: строка не приводится к uuid
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
