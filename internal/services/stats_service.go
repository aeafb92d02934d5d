package services

import (
	"context"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
	"github.com/vytor/studysmart/internal/rewards"
)

// StatsService handles statistics-related business logic
type StatsService interface {
	GetStats(ctx context.Context, owner models.Owner) (*models.StatsSummary, error)
	GetPointsHistory(ctx context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error)
	GetAttempts(ctx context.Context, owner models.Owner, limit int) ([]models.QuizAttempt, error)
	GetLeaderboard(ctx context.Context, sortBy string, limit int) ([]models.LeaderboardEntry, error)
}

type statsService struct {
	rewards     *rewards.Service
	statsRepo   repository.StatsRepository
	attemptRepo repository.AttemptRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(rewardsSvc *rewards.Service, statsRepo repository.StatsRepository, attemptRepo repository.AttemptRepository) StatsService {
	return &statsService{rewards: rewardsSvc, statsRepo: statsRepo, attemptRepo: attemptRepo}
}

func (s *statsService) GetStats(ctx context.Context, owner models.Owner) (*models.StatsSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats: owner=%s", owner)

	stats, err := s.rewards.Stats(ctx, owner)
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	summary := stats.Summary()
	return &summary, nil
}

func (s *statsService) GetPointsHistory(ctx context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting points history: owner=%s limit=%d", owner, limit)

	h, err := s.rewards.History(ctx, owner, limit)
	if err != nil {
		log.Error("failed to get points history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return h, nil
}

func (s *statsService) GetAttempts(ctx context.Context, owner models.Owner, limit int) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting attempts: owner=%s limit=%d", owner, limit)

	attempts, err := s.attemptRepo.List(ctx, owner, limit)
	if err != nil {
		log.Error("failed to get attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return attempts, nil
}

func (s *statsService) GetLeaderboard(ctx context.Context, sortBy string, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting leaderboard: sort_by=%s limit=%d", sortBy, limit)

	switch sortBy {
	case "":
		sortBy = models.SortByTotalPoints
	case models.SortByTotalPoints, models.SortByTotalQuizzes, models.SortByDailyStreak:
	default:
		return nil, errors.NewValidationError("sortBy", "must be totalPoints, totalQuizzes or dailyStreak")
	}

	entries, err := s.statsRepo.Leaderboard(ctx, sortBy, limit)
	if err != nil {
		log.Error("failed to get leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}
