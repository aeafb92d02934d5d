package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/prompt"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 when the database answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.DB != nil {
		if err := s.DB.Ready(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
		"version":   s.Version,
	})
}

func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"limit":     fmt.Sprintf("%d requests per minute", s.RateLimitPerMinute),
		"window":    "1 minute",
		"remaining": s.limiter.remaining(s.clientIP(r)),
	})
}

func (s *Server) handlePromptTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, prompt.Templates())
}

var availableEndpoints = []string{
	"POST /api/generate-quiz - Generate quiz with AI",
	"POST /api/quizzes - Generate and start a quiz",
	"GET /api/quizzes - List generated quizzes",
	"POST /api/sessions/{id}/answer - Answer the current question",
	"POST /api/guides - Generate a study guide",
	"POST /api/uploads - Preprocess an uploaded text file",
	"GET /api/stats - User statistics",
	"GET /api/stats/leaderboard - Leaderboard",
	"POST /api/auth/register - Create an account",
	"POST /api/auth/login - Log in",
	"GET /api/health - Server health check",
	"GET /api/rate-limit - Check rate limiting status",
	"GET /api/prompts/templates - Get prompt templates",
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, map[string]any{
		"error":              "Endpoint not found",
		"type":               "not_found",
		"path":               r.URL.RequestURI(),
		"availableEndpoints": availableEndpoints,
	})
}
