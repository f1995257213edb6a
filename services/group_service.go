package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"tournaments/models"
	"tournaments/repositories"
)

// GroupService — делегат групп поверх агрегата Tournament. Группы не
// хранятся отдельно: каждая операция читает документ турнира, меняет его и
// записывает обратно в одной транзакции с outbox-событием.
type GroupService interface {
	CreateGroup(ctx context.Context, tournamentID string, group *models.Group) (string, error)
	GetGroups(ctx context.Context, tournamentID string) ([]models.Group, error)
	GetGroup(ctx context.Context, tournamentID, groupID string) (*models.Group, error)
	UpdateGroup(ctx context.Context, tournamentID string, group *models.Group) error
	RemoveGroup(ctx context.Context, tournamentID, groupID string) error
	AddTeamToGroup(ctx context.Context, tournamentID, groupID, teamID string) error
	UpdateTeams(ctx context.Context, tournamentID, groupID string, teams []models.Team) error
}

type groupService struct {
	uow         repositories.UnitOfWork
	tournaments repositories.Repository[*models.Tournament]
	teams       repositories.Repository[*models.Team]
	outbox      repositories.OutboxRepository
	logger      *slog.Logger
}

func NewGroupService(
	uow repositories.UnitOfWork,
	tournaments repositories.Repository[*models.Tournament],
	teams repositories.Repository[*models.Team],
	outbox repositories.OutboxRepository,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		uow:         uow,
		tournaments: tournaments,
		teams:       teams,
		outbox:      outbox,
		logger:      logger,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, tournamentID string, group *models.Group) (string, error) {
	if group == nil || strings.TrimSpace(group.Name) == "" {
		return "", ErrGroupNameRequired
	}

	var id string
	err := s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.readTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		// Материализация уже заполнила список до numberOfGroups;
		// расти дальше лимита нельзя. Лимит 0 означает "без лимита".
		if tournament.Format.NumberOfGroups > 0 && len(tournament.Groups) >= tournament.Format.NumberOfGroups {
			return ErrGroupLimitReached
		}
		if len(group.Teams) > tournament.Format.MaxTeamsPerGroup {
			return fmt.Errorf("%w: group %q", ErrGroupFull, group.Name)
		}

		group.ID = uuid.NewString()
		group.TournamentID = tournament.ID
		if group.Teams == nil {
			group.Teams = []models.Team{}
		}
		tournament.Groups = append(tournament.Groups, *group)

		if _, err := s.tournaments.Update(ctx, exec, tournament); err != nil {
			return err
		}
		id = group.ID
		return s.outbox.Enqueue(ctx, exec, tournament.ID, TopicTournamentUpdated)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("group created",
		slog.String("tournament_id", tournamentID),
		slog.String("group_id", id),
	)
	return id, nil
}

func (s *groupService) GetGroups(ctx context.Context, tournamentID string) ([]models.Group, error) {
	tournament, err := s.readTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, len(tournament.Groups))
	copy(groups, tournament.Groups)
	for i := range groups {
		groups[i].TournamentID = tournament.ID
	}
	return groups, nil
}

func (s *groupService) GetGroup(ctx context.Context, tournamentID, groupID string) (*models.Group, error) {
	tournament, err := s.readTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	index := findGroup(tournament, groupID)
	if index < 0 {
		return nil, ErrGroupNotFound
	}

	group := tournament.Groups[index]
	group.TournamentID = tournament.ID
	return &group, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, tournamentID string, group *models.Group) error {
	if group == nil || group.ID == "" {
		return ErrGroupNotFound
	}

	return s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.readTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		index := findGroup(tournament, group.ID)
		if index < 0 {
			return ErrGroupNotFound
		}
		if len(group.Teams) > tournament.Format.MaxTeamsPerGroup {
			return fmt.Errorf("%w: group %q", ErrGroupFull, group.Name)
		}

		group.TournamentID = tournament.ID
		if group.Teams == nil {
			group.Teams = []models.Team{}
		}
		tournament.Groups[index] = *group

		if _, err := s.tournaments.Update(ctx, exec, tournament); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, tournament.ID, TopicTournamentUpdated)
	})
}

func (s *groupService) RemoveGroup(ctx context.Context, tournamentID, groupID string) error {
	return s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.readTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		index := findGroup(tournament, groupID)
		if index < 0 {
			return ErrGroupNotFound
		}
		tournament.Groups = append(tournament.Groups[:index], tournament.Groups[index+1:]...)

		if _, err := s.tournaments.Update(ctx, exec, tournament); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, tournament.ID, TopicTournamentUpdated)
	})
}

// AddTeamToGroup добавляет ссылку на существующую команду; при заполненной
// группе — ошибка вместимости, граница не превышается никогда.
func (s *groupService) AddTeamToGroup(ctx context.Context, tournamentID, groupID, teamID string) error {
	return s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		team, err := s.teams.ReadByID(ctx, exec, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
			}
			return err
		}

		tournament, err := s.readTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		index := findGroup(tournament, groupID)
		if index < 0 {
			return ErrGroupNotFound
		}

		group := &tournament.Groups[index]
		if len(group.Teams) >= tournament.Format.MaxTeamsPerGroup {
			return fmt.Errorf("%w: group %q", ErrGroupFull, group.Name)
		}
		group.Teams = append(group.Teams, *team)

		if _, err := s.tournaments.Update(ctx, exec, tournament); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, tournament.ID, TopicTournamentUpdated)
	})
}

// UpdateTeams заменяет состав группы целиком: либо весь набор проходит
// проверки, либо возвращается одна агрегированная ошибка и документ не
// меняется.
func (s *groupService) UpdateTeams(ctx context.Context, tournamentID, groupID string, teams []models.Team) error {
	return s.uow.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.readTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		index := findGroup(tournament, groupID)
		if index < 0 {
			return ErrGroupNotFound
		}

		var errs []error
		resolved := make([]models.Team, 0, len(teams))
		for _, ref := range teams {
			stored, err := s.teams.ReadByID(ctx, exec, ref.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					errs = append(errs, fmt.Errorf("%w: %s", ErrTeamNotFound, ref.ID))
					continue
				}
				return err
			}
			resolved = append(resolved, *stored)
		}
		if len(resolved) > tournament.Format.MaxTeamsPerGroup {
			errs = append(errs, fmt.Errorf("%w: group %q", ErrGroupFull, tournament.Groups[index].Name))
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}

		tournament.Groups[index].Teams = resolved

		if _, err := s.tournaments.Update(ctx, exec, tournament); err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, exec, tournament.ID, TopicTournamentUpdated)
	})
}

func (s *groupService) readTournament(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Tournament, error) {
	tournament, err := s.tournaments.ReadByID(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func findGroup(tournament *models.Tournament, groupID string) int {
	for i := range tournament.Groups {
		if tournament.Groups[i].ID == groupID {
			return i
		}
	}
	return -1
}
