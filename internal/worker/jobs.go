package worker

import (
	"context"

	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

// SaveQuizJob persists a freshly generated quiz.
type SaveQuizJob struct {
	Repo repository.QuizRepository
	Quiz models.Quiz
}

func (j *SaveQuizJob) Name() string { return "save_quiz" }

func (j *SaveQuizJob) Run(ctx context.Context) error {
	return j.Repo.Insert(ctx, j.Quiz)
}

// SaveGuideJob persists a freshly generated study guide.
type SaveGuideJob struct {
	Repo  repository.GuideRepository
	Guide models.StudyGuide
}

func (j *SaveGuideJob) Name() string { return "save_guide" }

func (j *SaveGuideJob) Run(ctx context.Context) error {
	return j.Repo.Insert(ctx, j.Guide)
}

// SaveAttemptJob records a finished play session.
type SaveAttemptJob struct {
	Repo    repository.AttemptRepository
	Attempt models.QuizAttempt
}

func (j *SaveAttemptJob) Name() string { return "save_attempt" }

func (j *SaveAttemptJob) Run(ctx context.Context) error {
	return j.Repo.Insert(ctx, j.Attempt)
}
