package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tournaments/models"
	"tournaments/repositories"
)

// TeamService — делегат реестра команд. Существование для update/delete
// подтверждает условная запись хранилища; политика одна для всех агрегатов.
type TeamService interface {
	Create(ctx context.Context, team *models.Team) (string, error)
	ReadAll(ctx context.Context) ([]*models.Team, error)
	ReadByID(ctx context.Context, id string) (*models.Team, error)
	Update(ctx context.Context, id string, team *models.Team) error
	Delete(ctx context.Context, id string) error
}

type teamService struct {
	uow    repositories.UnitOfWork
	repo   repositories.Repository[*models.Team]
	outbox repositories.OutboxRepository
	logger *slog.Logger
}

func NewTeamService(
	uow repositories.UnitOfWork,
	repo repositories.Repository[*models.Team],
	outbox repositories.OutboxRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		uow:    uow,
		repo:   repo,
		outbox: outbox,
		logger: logger,
	}
}

// Create проверяет уникальность имени до вставки; уникальный индекс по
// document->>'name' закрывает оставшееся окно гонки (23505 -> конфликт).
func (s *teamService) Create(ctx context.Context, team *models.Team) (string, error) {
	if team == nil || strings.TrimSpace(team.Name) == "" {
		return "", ErrTeamNameRequired
	}
	if err := normalizeFormat(&team.Format); err != nil {
		return "", err
	}

	taken, err := s.repo.ExistsByName(ctx, nil, team.Name)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrTeamNameConflict
	}

	var id string
	err = s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		createdID, err := s.repo.Create(ctx, exec, team)
		if err != nil {
			return err
		}
		id = createdID
		return s.outbox.Enqueue(ctx, exec, createdID, TopicTeamCreated)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNameConflict) {
			return "", ErrTeamNameConflict
		}
		return "", err
	}

	s.logger.Info("team created", slog.String("team_id", id), slog.String("name", team.Name))
	return id, nil
}

func (s *teamService) ReadAll(ctx context.Context) ([]*models.Team, error) {
	return s.repo.ReadAll(ctx, nil)
}

func (s *teamService) ReadByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.repo.ReadByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) Update(ctx context.Context, id string, team *models.Team) error {
	if team == nil || strings.TrimSpace(team.Name) == "" {
		return ErrTeamNameRequired
	}
	if err := normalizeFormat(&team.Format); err != nil {
		return err
	}

	team.ID = id

	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.repo.Update(ctx, exec, team); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, id, TopicTeamUpdated)
	})
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrNameConflict):
		return ErrTeamNameConflict
	}
	return err
}

// Delete отсутствующей команды — одна условная DELETE без мутаций и без
// события; исход "не найдено" типизирован, не исключение.
func (s *teamService) Delete(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repo.Delete(ctx, exec, id); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, id, TopicTeamDeleted)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTeamNotFound
	}
	return err
}
