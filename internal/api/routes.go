package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.languageMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/games", s.handleListGames)
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Put("/", s.handleUpdateGame)
			r.Post("/reset-progress", s.handleResetProgress)
			r.Post("/reset-levels", s.handleResetLevels)

			r.Get("/levels", s.handleGetLevels)
			r.Post("/levels", s.handleCreateLevel)
			r.Post("/levels/fix-positions", s.handleFixPositions)

			r.Post("/session", s.handleGetOrCreateSession)
			r.Post("/sessions", s.handleCreateSession)

			r.Get("/scores", s.handleGetGlobalScores)
			r.Get("/total-score", s.handleGetTotalScore)
			r.Get("/completion", s.handleGetCompletion)
		})

		r.Route("/levels/{levelID}", func(r chi.Router) {
			r.Put("/", s.handleUpdateLevel)
			r.Delete("/", s.handleDeleteLevel)
			r.Post("/move", s.handleMoveLevel)
			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleAddCategory)
		})
		r.Delete("/categories/{categoryID}", s.handleRemoveCategory)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/close", s.handleCloseSession)
			r.Get("/current-level", s.handleGetCurrentLevel)
			r.Get("/questions/{index}", s.handleGetOrCreateQuestion)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Get("/jokers", s.handleGetUsedJokers)
			r.Post("/jokers", s.handleSubmitJoker)
		})
	})
	return r
}
