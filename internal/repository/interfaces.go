package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/rewards"
)

// UserRepository handles account data access
type UserRepository interface {
	Insert(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

// StatsRepository persists per-owner stats and points history
type StatsRepository interface {
	rewards.StatsStore
	Leaderboard(ctx context.Context, sortBy string, limit int) ([]models.LeaderboardEntry, error)
}

// QuizRepository handles generated quiz data access
type QuizRepository interface {
	Insert(ctx context.Context, quiz models.Quiz) error
	Get(ctx context.Context, id string, owner models.Owner) (*models.Quiz, error)
	List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.Quiz, error)
	Count(ctx context.Context, owner models.Owner) (int, error)
}

// AttemptRepository handles finished quiz attempts
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.QuizAttempt) error
	List(ctx context.Context, owner models.Owner, limit int) ([]models.QuizAttempt, error)
}

// GuideRepository handles study guide data access
type GuideRepository interface {
	Insert(ctx context.Context, guide models.StudyGuide) error
	Get(ctx context.Context, id string, owner models.Owner) (*models.StudyGuide, error)
	List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.StudyGuide, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, owner models.Owner) (bool, error)
}

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")
