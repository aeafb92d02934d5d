package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type answerRequest struct {
	Option *int `json:"option" validate:"required"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.QuizService.Session(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.QuizService.Answer(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"), *req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	state, err := s.QuizService.Next(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}
