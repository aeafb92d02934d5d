package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/studysmart/internal/config"
)

func (s *Server) Routes() http.Handler {
	s.init()

	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(timeoutMiddleware(config.RequestTimeout))

		r.Get("/health", s.handleAPIHealth)
		r.Get("/rate-limit", s.handleRateLimit)
		r.Get("/prompts/templates", s.handlePromptTemplates)
		r.Post("/generate-quiz", s.handleGenerateQuiz)
		r.Post("/uploads", s.handleUpload)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/stats/leaderboard", s.handleLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(s.ownerMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Post("/quizzes", s.handleCreateQuiz)
			r.Get("/quizzes", s.handleListQuizzes)
			r.Get("/quizzes/{id}", s.handleGetQuiz)
			r.Post("/quizzes/{id}/play", s.handlePlayQuiz)

			r.Get("/sessions/{id}", s.handleGetSession)
			r.Post("/sessions/{id}/answer", s.handleAnswer)
			r.Post("/sessions/{id}/next", s.handleNext)

			r.Post("/guides", s.handleCreateGuide)
			r.Get("/guides", s.handleListGuides)
			r.Get("/guides/{id}", s.handleGetGuide)
			r.Delete("/guides/{id}", s.handleDeleteGuide)

			r.Get("/stats", s.handleStats)
			r.Get("/stats/points", s.handlePointsHistory)
			r.Get("/stats/attempts", s.handleAttempts)
		})
	})

	return r
}
