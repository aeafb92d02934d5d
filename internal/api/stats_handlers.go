package api

import (
	"net/http"

	"github.com/vytor/studysmart/internal/models"
)

const defaultLeaderboardSize = 10

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.GetStats(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handlePointsHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	history, err := s.StatsService.GetPointsHistory(r.Context(), ownerFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if history == nil {
		history = []models.PointsEntry{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		handleError(w, r, err)
		return
	}
	attempts, err := s.StatsService.GetAttempts(r.Context(), ownerFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"attempts": attempts})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultLeaderboardSize)
	if err != nil {
		handleError(w, r, err)
		return
	}
	sortBy := r.URL.Query().Get("sortBy")
	entries, err := s.StatsService.GetLeaderboard(r.Context(), sortBy, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	if sortBy == "" {
		sortBy = "totalPoints"
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"leaderboard": entries, "sortBy": sortBy})
}
