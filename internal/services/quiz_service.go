package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/quiz"
	"github.com/vytor/studysmart/internal/repository"
	"github.com/vytor/studysmart/internal/rewards"
)

// SessionState is a session snapshot as returned to callers. Summary is set
// only on the call that finished the session.
type SessionState struct {
	ID      string         `json:"sessionId"`
	QuizID  string         `json:"quizId,omitempty"`
	Topic   string         `json:"topic"`
	View    quiz.View      `json:"session"`
	Summary *FinishSummary `json:"summary,omitempty"`
}

// FinishSummary is what finishing a session earned.
type FinishSummary struct {
	AttemptID string              `json:"attemptId"`
	Points    int                 `json:"pointsEarned"`
	Stats     models.StatsSummary `json:"stats"`
}

// AnswerOutcome is the result of one answer plus the resulting state.
type AnswerOutcome struct {
	Result quiz.AnswerResult `json:"result"`
	SessionState
}

// QuizStart is a quiz together with the session opened to play it.
type QuizStart struct {
	Quiz models.Quiz `json:"quiz"`
	SessionState
}

// QuizService handles quiz generation, persistence and play
type QuizService interface {
	Create(ctx context.Context, owner models.Owner, req models.GenerationRequest, apiKey string) (*QuizStart, error)
	Play(ctx context.Context, owner models.Owner, quizID string) (*QuizStart, error)
	Get(ctx context.Context, owner models.Owner, quizID string) (*models.Quiz, error)
	List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.Quiz, int, error)
	Session(ctx context.Context, owner models.Owner, sessionID string) (*SessionState, error)
	Answer(ctx context.Context, owner models.Owner, sessionID string, option int) (*AnswerOutcome, error)
	Next(ctx context.Context, owner models.Owner, sessionID string) (*SessionState, error)
}

type quizService struct {
	generation GenerationService
	registry   *quiz.Registry
	rewards    *rewards.Service
	quizRepo   repository.QuizRepository
	queue      jobs.JobQueue
	now        func() time.Time
}

// NewQuizService creates a new QuizService
func NewQuizService(
	generation GenerationService,
	registry *quiz.Registry,
	rewardsSvc *rewards.Service,
	quizRepo repository.QuizRepository,
	queue jobs.JobQueue,
) QuizService {
	return &quizService{
		generation: generation,
		registry:   registry,
		rewards:    rewardsSvc,
		quizRepo:   quizRepo,
		queue:      queue,
		now:        time.Now,
	}
}

func (s *quizService) Create(ctx context.Context, owner models.Owner, req models.GenerationRequest, apiKey string) (*QuizStart, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	qs, err := s.generation.GenerateQuestions(ctx, req, apiKey)
	if err != nil {
		return nil, err
	}

	q := models.Quiz{
		ID:         uuid.NewString(),
		Owner:      owner,
		Topic:      quizTopic(req),
		Difficulty: req.Difficulty,
		Questions:  qs,
		Source:     models.SourceTopic,
		CreatedAt:  s.now().UTC(),
	}
	if req.FromText() {
		q.Source = models.SourceFile
		q.SourceFile = req.SourceName
	}

	if err := s.queue.EnqueueQuiz(q); err != nil {
		log.Error("failed to persist quiz %s: %v", q.ID, err)
		return nil, errors.NewInternalError(err)
	}

	start, err := s.open(ctx, owner, q)
	if err != nil {
		return nil, err
	}
	log.Info("quiz created: id=%s questions=%d session=%s", q.ID, len(qs), start.ID)
	return start, nil
}

func quizTopic(req models.GenerationRequest) string {
	if req.Topic != "" {
		return req.Topic
	}
	if req.SourceName != "" {
		return req.SourceName
	}
	return "Texto de estudio"
}

func (s *quizService) open(ctx context.Context, owner models.Owner, q models.Quiz) (*QuizStart, error) {
	entry, err := s.registry.Create(owner, quiz.Meta{QuizID: q.ID, Topic: q.Topic, Difficulty: q.Difficulty}, q.Questions)
	if err != nil {
		logger.FromContext(ctx).Error("failed to open session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &QuizStart{Quiz: q, SessionState: stateOf(entry)}, nil
}

func stateOf(e *quiz.Entry) SessionState {
	return SessionState{ID: e.ID, QuizID: e.Meta.QuizID, Topic: e.Meta.Topic, View: e.Session.Snapshot()}
}

func (s *quizService) Play(ctx context.Context, owner models.Owner, quizID string) (*QuizStart, error) {
	q, err := s.Get(ctx, owner, quizID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, owner, *q)
}

func (s *quizService) Get(ctx context.Context, owner models.Owner, quizID string) (*models.Quiz, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting quiz: id=%s", quizID)

	q, err := s.quizRepo.Get(ctx, quizID, owner)
	if err != nil {
		log.Error("failed to get quiz: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("quiz", quizID)
	}
	return q, nil
}

func (s *quizService) List(ctx context.Context, owner models.Owner, limit, offset int) ([]models.Quiz, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing quizzes: limit=%d offset=%d", limit, offset)

	quizzes, err := s.quizRepo.List(ctx, owner, limit, offset)
	if err != nil {
		log.Error("failed to list quizzes: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.quizRepo.Count(ctx, owner)
	if err != nil {
		log.Error("failed to count quizzes: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return quizzes, total, nil
}

func (s *quizService) entry(owner models.Owner, sessionID string) (*quiz.Entry, error) {
	e, err := s.registry.Get(sessionID, owner)
	if stderrors.Is(err, quiz.ErrSessionNotFound) {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return e, err
}

func (s *quizService) Session(ctx context.Context, owner models.Owner, sessionID string) (*SessionState, error) {
	e, err := s.entry(owner, sessionID)
	if err != nil {
		return nil, err
	}
	st := stateOf(e)
	return &st, nil
}

func (s *quizService) Answer(ctx context.Context, owner models.Owner, sessionID string, option int) (*AnswerOutcome, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz").WithField("session", sessionID)

	e, err := s.entry(owner, sessionID)
	if err != nil {
		return nil, err
	}

	res, err := e.Session.SelectAnswer(option)
	if err != nil {
		return nil, playError(err)
	}
	log.Debug("answer=%d correct=%t score=%d lives=%d", option, res.IsCorrect, res.Score, res.Lives)

	out := &AnswerOutcome{Result: res, SessionState: stateOf(e)}
	if res.Finished {
		summary, err := s.finish(ctx, e)
		if err != nil {
			return nil, err
		}
		out.Summary = summary
	}
	return out, nil
}

func (s *quizService) Next(ctx context.Context, owner models.Owner, sessionID string) (*SessionState, error) {
	e, err := s.entry(owner, sessionID)
	if err != nil {
		return nil, err
	}
	if err := e.Session.Advance(); err != nil {
		return nil, playError(err)
	}

	st := stateOf(e)
	if state, _ := e.Session.State(); state == quiz.Finished {
		summary, err := s.finish(ctx, e)
		if err != nil {
			return nil, err
		}
		st.Summary = summary
	}
	return &st, nil
}

// finish awards the session exactly once and records the attempt. Calls on an
// already finalized session return a nil summary.
func (s *quizService) finish(ctx context.Context, e *quiz.Entry) (*FinishSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz").WithField("session", e.ID)

	r, ok := e.Session.Finalize()
	if !ok {
		return nil, nil
	}

	delta, stats, err := s.rewards.Award(ctx, e.Owner, rewards.Result{
		Topic:          e.Meta.Topic,
		Difficulty:     e.Meta.Difficulty,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		Answered:       r.Answered,
		TotalQuestions: r.TotalQuestions,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	attempt := models.QuizAttempt{
		ID:             uuid.NewString(),
		Owner:          e.Owner,
		QuizID:         e.Meta.QuizID,
		Topic:          e.Meta.Topic,
		Difficulty:     e.Meta.Difficulty,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		Points:         delta.Points,
		LivesRemaining: r.LivesRemaining,
		MaxStreak:      r.MaxStreak,
		FinishReason:   string(r.Reason),
		Review:         Review(r),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.queue.EnqueueAttempt(attempt); err != nil {
		log.Error("failed to record attempt: %v", err)
	}

	log.Info("session finished: reason=%s score=%d points=%d", r.Reason, r.Score, delta.Points)
	return &FinishSummary{AttemptID: attempt.ID, Points: delta.Points, Stats: stats.Summary()}, nil
}

// Review pairs every answered question with the chosen option.
func Review(r quiz.Result) []models.QuestionReview {
	review := make([]models.QuestionReview, 0, len(r.Answers))
	for _, a := range r.Answers {
		q := r.Questions[a.QuestionIndex]
		review = append(review, models.QuestionReview{
			Question:  q.Question,
			Options:   q.Options,
			Correct:   q.Correct,
			Chosen:    a.Chosen,
			IsCorrect: a.IsCorrect,
		})
	}
	return review
}

func playError(err error) error {
	switch {
	case stderrors.Is(err, quiz.ErrInvalidChoice):
		return errors.NewValidationError("option", "must be between 0 and 3")
	case stderrors.Is(err, quiz.ErrAlreadyAnswered),
		stderrors.Is(err, quiz.ErrNotAnswered),
		stderrors.Is(err, quiz.ErrSessionFinished):
		return errors.NewConflictError(err.Error())
	default:
		return errors.NewInternalError(err)
	}
}
