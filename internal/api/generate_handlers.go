package api

import (
	"net/http"

	"github.com/vytor/studysmart/internal/logger"
)

type generateQuizRequest struct {
	Prompt string `json:"prompt"`
	APIKey string `json:"apiKey"`
}

// handleGenerateQuiz relays a caller-built prompt and returns the upstream
// completion body untouched. Prompt checks happen in the completion client so
// the error kinds match every other generation path.
func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req generateQuizRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	body, err := s.GenerationService.Relay(r.Context(), req.Prompt, req.APIKey)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error("failed to write completion: %v", err)
	}
}
