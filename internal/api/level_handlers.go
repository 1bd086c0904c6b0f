package api

import (
	"net/http"

	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/services"
)

// handleGetLevels lists the active ladder. With ?session= the levels carry the player's progress.
func (s *Server) handleGetLevels(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	sessionID, err := queryID(r, "session")
	if err != nil {
		handleError(w, r, err)
		return
	}
	levels, err := s.SessionService.GetLevels(r.Context(), gameID, userFromContext(r.Context()), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, levels)
}

func (s *Server) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var input services.LevelInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	level, err := s.LevelService.CreateLevel(r.Context(), userFromContext(r.Context()), gameID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, level)
}

func (s *Server) handleFixPositions(w http.ResponseWriter, r *http.Request) {
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
	if !view.Manager {
		handleError(w, r, errors.NewForbiddenError(models.CapabilityManage))
		return
	}
	if err := s.LevelService.FixPositions(r.Context(), gameID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var input services.LevelInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	level, err := s.LevelService.UpdateLevel(r.Context(), userFromContext(r.Context()), levelID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, level)
}

func (s *Server) handleDeleteLevel(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.LevelService.DeleteLevel(r.Context(), userFromContext(r.Context()), levelID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveLevel(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var body struct {
		Delta int `json:"delta"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	moved, err := s.LevelService.SwapPositions(r.Context(), userFromContext(r.Context()), levelID, body.Delta)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	categories, err := s.LevelService.ListCategories(r.Context(), levelID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var body struct {
		BankCategoryID       int64 `json:"mdl_category"`
		IncludeSubcategories bool  `json:"subcategories"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	category, err := s.LevelService.AddCategory(r.Context(), userFromContext(r.Context()), levelID, body.BankCategoryID, body.IncludeSubcategories)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, category)
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.LevelService.RemoveCategory(r.Context(), userFromContext(r.Context()), categoryID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
