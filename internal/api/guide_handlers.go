package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/studysmart/internal/models"
)

type createGuideRequest struct {
	Topic      string `json:"topic" validate:"required_without=SourceText,max=200"`
	SourceText string `json:"sourceText" validate:"max=8000"`
	SourceName string `json:"sourceName" validate:"max=255"`
	Difficulty string `json:"difficulty" validate:"required"`
	APIKey     string `json:"apiKey"`
}

func (s *Server) handleCreateGuide(w http.ResponseWriter, r *http.Request) {
	var req createGuideRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	genReq := s.generationRequest(models.ModeGuide, req.Topic, req.SourceText, req.SourceName, req.Difficulty, 0)
	g, err := s.GuideService.Create(r.Context(), ownerFromContext(r.Context()), genReq, req.APIKey)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, g)
}

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	guides, err := s.GuideService.List(r.Context(), ownerFromContext(r.Context()), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if guides == nil {
		guides = []models.StudyGuide{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"guides": guides})
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	g, err := s.GuideService.Get(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, g)
}

func (s *Server) handleDeleteGuide(w http.ResponseWriter, r *http.Request) {
	if err := s.GuideService.Delete(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
