package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tournaments/handlers"
	"tournaments/metrics"
)

// SetupRoutes — статическая таблица маршрутов, собираемая один раз в
// composition root и передаваемая HTTP-серверу.
func SetupRoutes(
	router *chi.Mux,
	m *metrics.Metrics,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	groupHandler *handlers.GroupHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(m.Middleware)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Post("/", teamHandler.CreateTeam)
		r.Get("/{teamID}", teamHandler.GetTeamByID)
		r.Put("/{teamID}", teamHandler.UpdateTeam)
		r.Delete("/{teamID}", teamHandler.DeleteTeam)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Post("/", tournamentHandler.CreateTournament)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentByID)
		r.Put("/{tournamentID}", tournamentHandler.UpdateTournament)
		r.Delete("/{tournamentID}", tournamentHandler.DeleteTournament)

		r.Route("/{tournamentID}/groups", func(r chi.Router) {
			r.Get("/", groupHandler.GetGroups)
			r.Post("/", groupHandler.CreateGroup)
			r.Get("/{groupID}", groupHandler.GetGroup)
			r.Put("/{groupID}", groupHandler.UpdateGroup)
			r.Delete("/{groupID}", groupHandler.DeleteGroup)
			r.Patch("/{groupID}/teams", groupHandler.UpdateTeams)
		})
	})

	router.Get("/events/ws", webSocketHandler.ServeWs)
	router.Handle("/metrics", promhttp.Handler())
}
