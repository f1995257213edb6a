package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"tournaments/models"
	"tournaments/repositories"
)

// TournamentService — делегат агрегата Tournament: применяет бизнес-правила
// и связывает запись документа с публикацией события через outbox.
type TournamentService interface {
	Create(ctx context.Context, tournament *models.Tournament) (string, error)
	ReadAll(ctx context.Context) ([]*models.Tournament, error)
	ReadByID(ctx context.Context, id string) (*models.Tournament, error)
	Update(ctx context.Context, id string, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
}

type tournamentService struct {
	uow    repositories.UnitOfWork
	repo   repositories.Repository[*models.Tournament]
	outbox repositories.OutboxRepository
	logger *slog.Logger
}

func NewTournamentService(
	uow repositories.UnitOfWork,
	repo repositories.Repository[*models.Tournament],
	outbox repositories.OutboxRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		uow:    uow,
		repo:   repo,
		outbox: outbox,
		logger: logger,
	}
}

// Create материализует группы по формату до записи: сохранённый документ
// уже содержит ровно numberOfGroups групп. Ошибка хранилища возвращается
// вызывающему, а не поглощается.
func (s *tournamentService) Create(ctx context.Context, tournament *models.Tournament) (string, error) {
	if tournament == nil {
		return "", ErrTournamentRequired
	}
	if strings.TrimSpace(tournament.Name) == "" {
		return "", ErrTournamentNameRequired
	}
	if err := normalizeFormat(&tournament.Format); err != nil {
		return "", err
	}

	tournament.MaterializeGroups()
	assignGroupIDs(tournament)
	if err := checkGroupCapacities(tournament); err != nil {
		return "", err
	}

	var id string
	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		createdID, err := s.repo.Create(ctx, exec, tournament)
		if err != nil {
			return err
		}
		id = createdID
		return s.outbox.Enqueue(ctx, exec, createdID, TopicTournamentCreated)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", id),
		slog.Int("groups", len(tournament.Groups)),
	)
	return id, nil
}

func (s *tournamentService) ReadAll(ctx context.Context) ([]*models.Tournament, error) {
	return s.repo.ReadAll(ctx, nil)
}

func (s *tournamentService) ReadByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.repo.ReadByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

// Update записывает полный документ-замену по id из пути. Существование
// подтверждает условный UPDATE хранилища; событие ставится в очередь в той
// же транзакции и не публикуется, если записи не было.
func (s *tournamentService) Update(ctx context.Context, id string, tournament *models.Tournament) error {
	if tournament == nil {
		return ErrTournamentRequired
	}
	if strings.TrimSpace(tournament.Name) == "" {
		return ErrTournamentNameRequired
	}
	if err := normalizeFormat(&tournament.Format); err != nil {
		return err
	}

	tournament.ID = id // id из пути важнее id из тела
	assignGroupIDs(tournament)
	if err := checkGroupCapacities(tournament); err != nil {
		return err
	}

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.repo.Update(ctx, exec, tournament); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, id, TopicTournamentUpdated)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repo.Delete(ctx, exec, id); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, id, TopicTournamentDeleted)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

// assignGroupIDs выдаёт id группам, у которых его ещё нет. Группы живут
// внутри документа, хранилище им id не назначает.
func assignGroupIDs(tournament *models.Tournament) {
	for i := range tournament.Groups {
		if tournament.Groups[i].ID == "" {
			tournament.Groups[i].ID = uuid.NewString()
		}
	}
}
