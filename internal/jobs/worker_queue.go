package jobs

import (
	"context"
	"errors"

	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
	"github.com/vytor/studysmart/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool. When the pool rejects
// a job the write runs inline so nothing generated is silently dropped.
type WorkerQueue struct {
	pool        *worker.Pool
	quizRepo    repository.QuizRepository
	guideRepo   repository.GuideRepository
	attemptRepo repository.AttemptRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	quizRepo repository.QuizRepository,
	guideRepo repository.GuideRepository,
	attemptRepo repository.AttemptRepository,
) JobQueue {
	return &WorkerQueue{
		pool:        pool,
		quizRepo:    quizRepo,
		guideRepo:   guideRepo,
		attemptRepo: attemptRepo,
	}
}

func (q *WorkerQueue) submit(job worker.Job) error {
	err := q.pool.Submit(job)
	if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrPoolClosed) {
		log := logger.Default().WithPrefix("jobs").WithField("job", job.Name())
		log.Warn("pool unavailable (%v), running job inline", err)
		return job.Run(logger.NewContext(context.Background(), log))
	}
	return err
}

func (q *WorkerQueue) EnqueueQuiz(quiz models.Quiz) error {
	return q.submit(&worker.SaveQuizJob{Repo: q.quizRepo, Quiz: quiz})
}

func (q *WorkerQueue) EnqueueGuide(guide models.StudyGuide) error {
	return q.submit(&worker.SaveGuideJob{Repo: q.guideRepo, Guide: guide})
}

func (q *WorkerQueue) EnqueueAttempt(attempt models.QuizAttempt) error {
	return q.submit(&worker.SaveAttemptJob{Repo: q.attemptRepo, Attempt: attempt})
}
