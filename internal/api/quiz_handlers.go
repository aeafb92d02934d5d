package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type createQuizRequest struct {
	Topic        string `json:"topic" validate:"required_without=SourceText,max=200"`
	SourceText   string `json:"sourceText" validate:"max=8000"`
	SourceName   string `json:"sourceName" validate:"max=255"`
	Difficulty   string `json:"difficulty" validate:"required"`
	NumQuestions int    `json:"numQuestions"`
	APIKey       string `json:"apiKey"`
}

func (s *Server) generationRequest(mode models.Mode, topic, text, name, difficulty string, count int) models.GenerationRequest {
	if mode == models.ModeQuiz && count == 0 {
		count = s.DefaultQuestionCount
	}
	return models.GenerationRequest{
		Mode:          mode,
		Topic:         strings.TrimSpace(topic),
		SourceText:    text,
		SourceName:    strings.TrimSpace(name),
		Difficulty:    models.Difficulty(strings.ToLower(strings.TrimSpace(difficulty))),
		QuestionCount: count,
	}
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createQuizRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	genReq := s.generationRequest(models.ModeQuiz, req.Topic, req.SourceText, req.SourceName, req.Difficulty, req.NumQuestions)
	start, err := s.QuizService.Create(r.Context(), ownerFromContext(r.Context()), genReq, req.APIKey)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("quiz %s started in session %s", start.Quiz.ID, start.ID)
	writeJSON(w, r, http.StatusCreated, start)
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	quizzes, total, err := s.QuizService.List(r.Context(), ownerFromContext(r.Context()), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"quizzes": quizzes,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.QuizService.Get(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}

func (s *Server) handlePlayQuiz(w http.ResponseWriter, r *http.Request) {
	start, err := s.QuizService.Play(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, start)
}

func page(r *http.Request) (int, int, error) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
