package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

// GuideService handles study guide generation and retrieval
type GuideService interface {
	Create(ctx context.Context, owner models.Owner, req models.GenerationRequest, apiKey string) (*models.StudyGuide, error)
	Get(ctx context.Context, owner models.Owner, id string) (*models.StudyGuide, error)
	List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.StudyGuide, error)
	Delete(ctx context.Context, owner models.Owner, id string) error
}

type guideService struct {
	generation GenerationService
	guideRepo  repository.GuideRepository
	queue      jobs.JobQueue
	now        func() time.Time
}

// NewGuideService creates a new GuideService
func NewGuideService(generation GenerationService, guideRepo repository.GuideRepository, queue jobs.JobQueue) GuideService {
	return &guideService{generation: generation, guideRepo: guideRepo, queue: queue, now: time.Now}
}

func (s *guideService) Create(ctx context.Context, owner models.Owner, req models.GenerationRequest, apiKey string) (*models.StudyGuide, error) {
	log := logger.FromContext(ctx).WithPrefix("guide")

	content, err := s.generation.GenerateGuide(ctx, req, apiKey)
	if err != nil {
		return nil, err
	}

	g := models.StudyGuide{
		ID:         uuid.NewString(),
		Owner:      owner,
		Topic:      quizTopic(req),
		Difficulty: req.Difficulty,
		Content:    content,
		Source:     models.SourceTopic,
		CreatedAt:  s.now().UTC(),
	}
	if req.FromText() {
		g.Source = models.SourceFile
		g.SourceFile = req.SourceName
	}

	if err := s.queue.EnqueueGuide(g); err != nil {
		log.Error("failed to persist guide %s: %v", g.ID, err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("guide created: id=%s topic=%q", g.ID, g.Topic)
	return &g, nil
}

// Get returns the guide and counts the view.
func (s *guideService) Get(ctx context.Context, owner models.Owner, id string) (*models.StudyGuide, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting guide: id=%s", id)

	g, err := s.guideRepo.Get(ctx, id, owner)
	if err != nil {
		log.Error("failed to get guide: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if g == nil {
		return nil, errors.NewNotFoundError("guide", id)
	}

	if err := s.guideRepo.IncrementViews(ctx, id); err != nil {
		log.Warn("failed to count guide view: %v", err)
	} else {
		g.Views++
	}
	return g, nil
}

func (s *guideService) List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.StudyGuide, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing guides: limit=%d offset=%d", limit, offset)

	guides, err := s.guideRepo.List(ctx, owner, limit, offset)
	if err != nil {
		log.Error("failed to list guides: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return guides, nil
}

func (s *guideService) Delete(ctx context.Context, owner models.Owner, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting guide: id=%s", id)

	deleted, err := s.guideRepo.Delete(ctx, id, owner)
	if err != nil {
		log.Error("failed to delete guide: %v", err)
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("guide", id)
	}
	log.Info("guide deleted: id=%s", id)
	return nil
}
