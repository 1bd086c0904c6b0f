package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/models"
)

func (s *Server) handleGetOrCreateSession(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.SessionService.GetOrCreateSession(r.Context(), gameID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

// handleCreateSession dumps any running session of the caller and starts a new one.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.SessionService.CreateSession(r.Context(), gameID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.SessionService.GetSession(r.Context(), sessionID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.SessionService.CloseSession(r.Context(), sessionID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleGetCurrentLevel(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	level, err := s.SessionService.GetCurrentLevel(r.Context(), sessionID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"level": level})
}

func (s *Server) handleGetOrCreateQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		handleError(w, r, errors.NewBadRequestError("invalid level index: "+raw))
		return
	}
	question, err := s.SessionService.GetOrCreateQuestion(r.Context(), sessionID, userFromContext(r.Context()), index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, question)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var body struct {
		LevelID    int64 `json:"level_id"`
		QuestionID int64 `json:"question_id"`
		AnswerID   int64 `json:"answer_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.LevelID <= 0 || body.QuestionID <= 0 || body.AnswerID <= 0 {
		handleError(w, r, errors.NewBadRequestError("level_id, question_id and answer_id are required"))
		return
	}
	question, err := s.SessionService.SubmitAnswer(r.Context(), sessionID, userFromContext(r.Context()),
		body.LevelID, body.QuestionID, body.AnswerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, question)
}

func (s *Server) handleSubmitJoker(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var body struct {
		QuestionID int64            `json:"question_id"`
		JokerType  models.JokerType `json:"joker_type"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.QuestionID <= 0 {
		handleError(w, r, errors.NewBadRequestError("question_id is required"))
		return
	}
	joker, err := s.SessionService.SubmitJoker(r.Context(), sessionID, userFromContext(r.Context()), body.QuestionID, body.JokerType)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, joker)
}

func (s *Server) handleGetUsedJokers(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	jokers, err := s.SessionService.GetUsedJokers(r.Context(), sessionID, userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, jokers)
}
