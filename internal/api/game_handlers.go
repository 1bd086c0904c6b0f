package api

import (
	"net/http"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/services"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.GameService.ListGames(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.GameService.GetGame(r.Context(), gameID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var input services.GameInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	game, err := s.GameService.UpdateGame(r.Context(), userFromContext(r.Context()), gameID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, game)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.GameService.ResetProgress(r.Context(), userFromContext(r.Context()), gameID); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("progress of game %d reset", gameID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetLevels(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.GameService.ResetLevels(r.Context(), userFromContext(r.Context()), gameID); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("levels of game %d reset", gameID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGlobalScores(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	rows, err := s.ScoreService.GetGlobalScores(r.Context(), gameID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handleGetTotalScore(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	mode := r.URL.Query().Get("mode")
	total, err := s.ScoreService.CalculateTotalScore(r.Context(), gameID, userFromContext(r.Context()), mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"score": total, "mode": mode})
}

func (s *Server) handleGetCompletion(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	state, err := s.ScoreService.GetCompletionState(r.Context(), gameID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}
