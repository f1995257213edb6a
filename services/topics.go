package services

// Топики событий, публикуемых через outbox после фиксации записи.
// Групповые операции идут как tournament.updated: единица хранения —
// документ турнира.
const (
	TopicTournamentCreated = "tournament.created"
	TopicTournamentUpdated = "tournament.updated"
	TopicTournamentDeleted = "tournament.deleted"

	TopicTeamCreated = "team.created"
	TopicTeamUpdated = "team.updated"
	TopicTeamDeleted = "team.deleted"
)
