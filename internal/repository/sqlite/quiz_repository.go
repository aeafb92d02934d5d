package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

const maxQuizPage = 100

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Insert(ctx context.Context, q models.Quiz) error {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("inserting quiz: id=%s topic=%s questions=%d", q.ID, q.Topic, len(q.Questions))

	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO quizzes (id, owner, topic, difficulty, questions, source, source_file, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, q.ID, q.Owner, q.Topic, q.Difficulty, string(questions), q.Source, q.SourceFile, q.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to insert quiz: %v", err)
	}
	return err
}

func scanQuiz(row interface{ Scan(...any) error }) (models.Quiz, error) {
	var q models.Quiz
	var questions string
	if err := row.Scan(&q.ID, &q.Owner, &q.Topic, &q.Difficulty, &questions, &q.Source, &q.SourceFile, &q.CreatedAt); err != nil {
		return q, err
	}
	if err := json.Unmarshal([]byte(questions), &q.Questions); err != nil {
		return q, fmt.Errorf("decode questions of quiz %s: %w", q.ID, err)
	}
	return q, nil
}

var quizColumns = []string{"id", "owner", "topic", "difficulty", "questions", "source", "source_file", "created_at"}

func (r *quizRepository) Get(ctx context.Context, id string, owner models.Owner) (*models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("getting quiz: id=%s", id)

	query, args, err := sqlBuilder.Select(quizColumns...).
		From("quizzes").
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return nil, err
	}

	q, err := scanQuiz(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz: %v", err)
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("listing quizzes: owner=%s limit=%d offset=%d", owner, limit, offset)

	lim, off := pageBounds(limit, offset, maxQuizPage)
	query, args, err := sqlBuilder.Select(quizColumns...).
		From("quizzes").
		Where(squirrel.Eq{"owner": owner}).
		OrderBy("created_at DESC", "id").
		Limit(lim).
		Offset(off).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list quizzes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			log.Error("failed to scan quiz row: %v", err)
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	log.Debug("found %d quizzes", len(quizzes))
	return quizzes, rows.Err()
}

func (r *quizRepository) Count(ctx context.Context, owner models.Owner) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("quizzes").Where(squirrel.Eq{"owner": owner}).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
