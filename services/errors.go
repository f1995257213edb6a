package services

import "errors"

// Общие ошибки делегатов, используемые в маппинге HTTP.
var (
	// Не найдено (типизированный исход, а не исключение)
	ErrTournamentNotFound = errors.New("tournament doesn't exist")
	ErrTeamNotFound       = errors.New("team doesn't exist")
	ErrGroupNotFound      = errors.New("group doesn't exist")

	// Конфликты
	ErrTeamNameConflict = errors.New("team name is already in use")

	// Ошибки валидации и бизнес-правил
	ErrTournamentRequired     = errors.New("tournament payload is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrGroupNameRequired      = errors.New("group name is required")
	ErrInvalidFormat          = errors.New("format is invalid")
	ErrGroupLimitReached      = errors.New("tournament group limit reached")
	ErrGroupFull              = errors.New("group is full")
)
