package models

// TournamentType перечисляет поддерживаемые схемы проведения.
type TournamentType string

const (
	TypeRoundRobin TournamentType = "ROUND_ROBIN"
	TypeNFL        TournamentType = "NFL"
)

// Format описывает разбиение агрегата на группы: количество групп и
// вместимость каждой. Команды переиспользуют его для внутренней структуры
// (например, дивизионы NFL).
type Format struct {
	NumberOfGroups   int            `json:"numberOfGroups"`
	MaxTeamsPerGroup int            `json:"maxTeamsPerGroup"`
	Type             TournamentType `json:"type"`
}

// DefaultFormat returns the format applied when a request omits one.
func DefaultFormat() Format {
	return Format{
		NumberOfGroups:   1,
		MaxTeamsPerGroup: 16,
		Type:             TypeRoundRobin,
	}
}
