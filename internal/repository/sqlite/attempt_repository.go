package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

const maxAttemptPage = 100

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.QuizAttempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: id=%s quiz_id=%s score=%d", a.ID, a.QuizID, a.Score)

	review, err := json.Marshal(a.Review)
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO quiz_attempts (id, owner, quiz_id, topic, difficulty, score, correct_answers, total_questions,
                           points, lives_remaining, max_streak, finish_reason, review, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.ID, a.Owner, a.QuizID, a.Topic, a.Difficulty, a.Score, a.CorrectAnswers, a.TotalQuestions,
		a.Points, a.LivesRemaining, a.MaxStreak, a.FinishReason, string(review), a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to insert attempt: %v", err)
	}
	return err
}

func (r *attemptRepository) List(ctx context.Context, owner models.Owner, limit int) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: owner=%s limit=%d", owner, limit)

	lim, _ := pageBounds(limit, 0, maxAttemptPage)
	query, args, err := sqlBuilder.Select(
		"id", "owner", "quiz_id", "topic", "difficulty", "score", "correct_answers", "total_questions",
		"points", "lives_remaining", "max_streak", "finish_reason", "review", "created_at",
	).
		From("quiz_attempts").
		Where(squirrel.Eq{"owner": owner}).
		OrderBy("created_at DESC", "id").
		Limit(lim).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		var review string
		if err := rows.Scan(&a.ID, &a.Owner, &a.QuizID, &a.Topic, &a.Difficulty, &a.Score, &a.CorrectAnswers,
			&a.TotalQuestions, &a.Points, &a.LivesRemaining, &a.MaxStreak, &a.FinishReason, &review, &a.CreatedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(review), &a.Review); err != nil {
			return nil, fmt.Errorf("decode review of attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}
