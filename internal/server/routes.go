package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/arcade/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Arcade API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, d.Checks).Routes())
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	// Player routes. The intranet shell authenticates and sets X-User-ID.
	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/api/games", handleListGames(logger, d.Games))
		r.Get("/api/games/{gameID}", handleGetGame(logger, d.Games))
		r.Post("/api/games/{gameID}/sessions", handleCreateSession(logger, d.Games, d.Sessions))

		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", handleGetSession(logger, d.Sessions))
			r.Delete("/", handleCloseSession(logger, d.Sessions))
			r.Post("/commands", handleCommand(logger, d.Sessions))
			r.Post("/reward/retry", handleRetryReward(logger, d.Sessions))
			r.Get("/events", handleEvents(d.Broker, d.Sessions))
			r.Get("/ws", handleSessionWS(logger, d.Broker, d.Sessions))
		})

		r.Get("/api/me/points", handleMyPoints(logger, d.Points))
		r.Get("/api/leaderboard", handleLeaderboard(logger, d.Points))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", handleAdminLogin(logger, d.Admin))
		r.Post("/logout", handleAdminLogout(logger, d.Admin))

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(d.Admin))
			r.Get("/me", handleAdminMe())
			r.Get("/games", handleAdminListGames(logger, d.Games))
			r.Get("/games/{gameID}", handleAdminGetGame(logger, d.Games))
			r.Put("/games/{gameID}", handleAdminPutGame(logger, d.Games))
			r.Put("/games/{gameID}/status", handleAdminSetStatus(logger, d.Games))
			r.Delete("/games/{gameID}", handleAdminDeleteGame(logger, d.Games))
		})
	})
}
