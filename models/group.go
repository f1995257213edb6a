package models

// Group живёт внутри документа турнира. TournamentID — обратная ссылка,
// не владение: группа не является отдельным агрегатом хранения.
type Group struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournamentId,omitempty"`
	Name         string `json:"name"`
	Teams        []Team `json:"teams"`
}
