package rewards

import (
	"context"
	"fmt"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
)

// Service awards points through an injected StatsStore. Callers invoke Award
// once per finished session.
type Service struct {
	store StatsStore
}

func NewService(store StatsStore) *Service {
	return &Service{store: store}
}

// Award scores r and commits it for owner.
func (s *Service) Award(ctx context.Context, owner models.Owner, r Result) (Delta, models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("rewards").WithField("owner", owner)

	d := NewDelta(r)
	stats, err := s.store.Commit(ctx, owner, d)
	if err != nil {
		log.Error("failed to commit rewards: %v", err)
		return Delta{}, models.UserStats{}, fmt.Errorf("commit rewards: %w", err)
	}

	log.Info("awarded %d points (%d/%d correct, %s), total=%d daily_streak=%d",
		d.Points, r.CorrectAnswers, r.TotalQuestions, r.Difficulty, stats.TotalPoints, stats.DailyStreak)
	return d, stats, nil
}

// Stats loads the current stats for owner.
func (s *Service) Stats(ctx context.Context, owner models.Owner) (models.UserStats, error) {
	return s.store.Load(ctx, owner)
}

// History returns up to limit entries, newest first.
func (s *Service) History(ctx context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	return s.store.History(ctx, owner, limit)
}
