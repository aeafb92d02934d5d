package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
	"github.com/vytor/studysmart/internal/rewards"
)

const maxLeaderboard = 100

// leaderboardColumns whitelists the sortable columns.
var leaderboardColumns = map[string]string{
	models.SortByTotalPoints:  "s.total_points",
	models.SortByTotalQuizzes: "s.total_quizzes",
	models.SortByDailyStreak:  "s.daily_streak",
}

type statsRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return NewStatsRepositoryWithClock(db, time.Now)
}

// NewStatsRepositoryWithClock is NewStatsRepository with an injected clock.
func NewStatsRepositoryWithClock(db *sql.DB, now func() time.Time) repository.StatsRepository {
	return &statsRepository{db: db, now: now}
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadStats(ctx context.Context, q queryRower, owner models.Owner) (models.UserStats, error) {
	var s models.UserStats
	err := q.QueryRowContext(ctx, `
SELECT total_points, total_quizzes, total_correct_answers, total_questions,
       daily_streak, last_quiz_date, best_score
FROM user_stats
WHERE owner = ?
`, owner).Scan(&s.TotalPoints, &s.TotalQuizzes, &s.TotalCorrectAnswers, &s.TotalQuestions,
		&s.DailyStreak, &s.LastQuizDate, &s.BestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStats{}, nil
	}
	return s, err
}

func (r *statsRepository) Load(ctx context.Context, owner models.Owner) (models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("loading stats: owner=%s", owner)

	s, err := loadStats(ctx, r.db, owner)
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return models.UserStats{}, err
	}
	return s, nil
}

// Commit applies d to the owner's stats, appends a history entry and trims
// history to the newest rewards.HistoryLimit entries, all in one transaction.
func (r *statsRepository) Commit(ctx context.Context, owner models.Owner, d rewards.Delta) (models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("committing rewards: owner=%s points=%d", owner, d.Points)

	now := r.now()
	var updated models.UserStats
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := loadStats(ctx, tx, owner)
		if err != nil {
			return err
		}
		updated = rewards.Apply(current, d, now)

		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_stats (owner, total_points, total_quizzes, total_correct_answers, total_questions,
                        daily_streak, last_quiz_date, best_score, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(owner) DO UPDATE SET
    total_points = excluded.total_points,
    total_quizzes = excluded.total_quizzes,
    total_correct_answers = excluded.total_correct_answers,
    total_questions = excluded.total_questions,
    daily_streak = excluded.daily_streak,
    last_quiz_date = excluded.last_quiz_date,
    best_score = excluded.best_score,
    updated_at = excluded.updated_at
`, owner, updated.TotalPoints, updated.TotalQuizzes, updated.TotalCorrectAnswers, updated.TotalQuestions,
			updated.DailyStreak, updated.LastQuizDate, updated.BestScore, now); err != nil {
			return err
		}

		e := d.Entry(now)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO points_history (owner, points, topic, difficulty, correct_answers, total_questions, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, owner, e.Points, e.Topic, e.Difficulty, e.CorrectAnswers, e.TotalQuestions, e.CreatedAt); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
DELETE FROM points_history
WHERE owner = ? AND id NOT IN (
    SELECT id FROM points_history WHERE owner = ? ORDER BY id DESC LIMIT ?
)
`, owner, owner, rewards.HistoryLimit)
		return err
	})
	if err != nil {
		log.Error("failed to commit rewards: %v", err)
		return models.UserStats{}, err
	}
	return updated, nil
}

func (r *statsRepository) History(ctx context.Context, owner models.Owner, limit int) ([]models.PointsEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("listing points history: owner=%s limit=%d", owner, limit)

	lim, _ := pageBounds(limit, 0, rewards.HistoryLimit)
	query, args, err := sqlBuilder.
		Select("id", "points", "topic", "difficulty", "correct_answers", "total_questions", "created_at").
		From("points_history").
		Where(squirrel.Eq{"owner": owner}).
		OrderBy("id DESC").
		Limit(lim).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list points history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.PointsEntry
	for rows.Next() {
		var e models.PointsEntry
		if err := rows.Scan(&e.ID, &e.Points, &e.Topic, &e.Difficulty, &e.CorrectAnswers, &e.TotalQuestions, &e.CreatedAt); err != nil {
			log.Error("failed to scan points row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Leaderboard ranks registered users; device owners are not listed.
func (r *statsRepository) Leaderboard(ctx context.Context, sortBy string, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("loading leaderboard: sort_by=%s limit=%d", sortBy, limit)

	column, ok := leaderboardColumns[sortBy]
	if !ok {
		column = leaderboardColumns[models.SortByTotalPoints]
	}
	lim, _ := pageBounds(limit, 0, maxLeaderboard)

	query, args, err := sqlBuilder.
		Select("s.owner", "u.username", "s.total_points", "s.total_quizzes", "s.daily_streak",
			"s.total_correct_answers", "s.total_questions").
		From("user_stats s").
		Join("users u ON s.owner = 'user:' || u.id").
		OrderBy(column+" DESC", "s.total_points DESC", "u.username ASC").
		Limit(lim).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var s models.UserStats
		if err := rows.Scan(&e.Owner, &e.Username, &s.TotalPoints, &s.TotalQuizzes, &s.DailyStreak,
			&s.TotalCorrectAnswers, &s.TotalQuestions); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		e.Rank = len(entries) + 1
		e.TotalPoints = s.TotalPoints
		e.TotalQuizzes = s.TotalQuizzes
		e.DailyStreak = s.DailyStreak
		e.AccuracyPercentage = s.AccuracyPercentage()
		entries = append(entries, e)
	}
	log.Debug("leaderboard has %d entries", len(entries))
	return entries, rows.Err()
}
