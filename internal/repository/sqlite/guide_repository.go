package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

const maxGuidePage = 100

type guideRepository struct {
	db *sql.DB
}

// NewGuideRepository creates a new GuideRepository implementation
func NewGuideRepository(db *sql.DB) repository.GuideRepository {
	return &guideRepository{db: db}
}

var guideColumns = []string{"id", "owner", "topic", "difficulty", "content", "source", "source_file", "views", "created_at"}

func scanGuide(row interface{ Scan(...any) error }) (models.StudyGuide, error) {
	var g models.StudyGuide
	err := row.Scan(&g.ID, &g.Owner, &g.Topic, &g.Difficulty, &g.Content, &g.Source, &g.SourceFile, &g.Views, &g.CreatedAt)
	return g, err
}

func (r *guideRepository) Insert(ctx context.Context, g models.StudyGuide) error {
	log := logger.FromContext(ctx).WithPrefix("guide_repo")
	log.Debug("inserting guide: id=%s topic=%s", g.ID, g.Topic)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_guides (id, owner, topic, difficulty, content, source, source_file, views, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, g.ID, g.Owner, g.Topic, g.Difficulty, g.Content, g.Source, g.SourceFile, g.Views, g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to insert guide: %v", err)
	}
	return err
}

func (r *guideRepository) Get(ctx context.Context, id string, owner models.Owner) (*models.StudyGuide, error) {
	log := logger.FromContext(ctx).WithPrefix("guide_repo")
	log.Debug("getting guide: id=%s", id)

	query, args, err := sqlBuilder.Select(guideColumns...).
		From("study_guides").
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return nil, err
	}

	g, err := scanGuide(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get guide: %v", err)
		return nil, err
	}
	return &g, nil
}

func (r *guideRepository) List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.StudyGuide, error) {
	log := logger.FromContext(ctx).WithPrefix("guide_repo")
	log.Debug("listing guides: owner=%s limit=%d offset=%d", owner, limit, offset)

	lim, off := pageBounds(limit, offset, maxGuidePage)
	query, args, err := sqlBuilder.Select(guideColumns...).
		From("study_guides").
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
		log.Error("failed to list guides: %v", err)
		return nil, err
	}
	defer rows.Close()

	var guides []models.StudyGuide
	for rows.Next() {
		g, err := scanGuide(rows)
		if err != nil {
			log.Error("failed to scan guide row: %v", err)
			return nil, err
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

func (r *guideRepository) IncrementViews(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("guide_repo")
	log.Debug("incrementing views: id=%s", id)

	_, err := r.db.ExecContext(ctx, `UPDATE study_guides SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to increment views: %v", err)
	}
	return err
}

// Delete removes the guide and reports whether a row matched.
func (r *guideRepository) Delete(ctx context.Context, id string, owner models.Owner) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("guide_repo")
	log.Debug("deleting guide: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM study_guides WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		log.Error("failed to delete guide: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
