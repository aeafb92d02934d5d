// Package quiz drives a lives-based multiple-choice play session.
package quiz

import (
	"errors"
	"sync"

	"github.com/vytor/studysmart/internal/models"
)

const (
	StartingLives = 3
	BasePoints    = 100
	StreakBonus   = 10
)

var (
	ErrNoQuestions     = errors.New("quiz has no questions")
	ErrSessionFinished = errors.New("session already finished")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("current question not answered yet")
	ErrInvalidChoice   = errors.New("option index out of range")
)

type State int

const (
	AwaitingAnswer State = iota
	Answered
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case Answered:
		return "answered"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

type FinishReason string

const (
	ExhaustedQuestions FinishReason = "exhausted_questions"
	LivesDepleted      FinishReason = "lives_depleted"
)

// Session is one play-through of a question set. All methods are safe for
// concurrent use, though a session is meant to be driven by one caller.
type Session struct {
	mu        sync.Mutex
	questions []models.Question
	current   int
	chosen    int
	lives     int
	streak    int
	maxStreak int
	score     int
	answers   []models.Answer
	state     State
	reason    FinishReason
	finalized bool
}

// New starts a session in AwaitingAnswer(0) with full lives.
func New(questions []models.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	return &Session{
		questions: qs,
		chosen:    -1,
		lives:     StartingLives,
		state:     AwaitingAnswer,
	}, nil
}

// AnswerResult is the outcome of one SelectAnswer.
type AnswerResult struct {
	IsCorrect    bool         `json:"isCorrect"`
	Correct      int          `json:"correct"`
	Gained       int          `json:"gained"`
	Score        int          `json:"score"`
	Streak       int          `json:"streak"`
	Lives        int          `json:"lives"`
	Finished     bool         `json:"finished"`
	FinishReason FinishReason `json:"finishReason,omitempty"`
}

// SelectAnswer records the answer for the current question. A wrong answer
// that takes the last life finishes the session at once.
func (s *Session) SelectAnswer(choice int) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Finished:
		return AnswerResult{}, ErrSessionFinished
	case Answered:
		return AnswerResult{}, ErrAlreadyAnswered
	}

	q := s.questions[s.current]
	if choice < 0 || choice >= len(q.Options) {
		return AnswerResult{}, ErrInvalidChoice
	}

	correct := choice == q.Correct
	s.answers = append(s.answers, models.Answer{QuestionIndex: s.current, Chosen: choice, IsCorrect: correct})
	s.chosen = choice

	gained := 0
	if correct {
		gained = BasePoints + s.streak*StreakBonus
		s.score += gained
		s.streak++
		if s.streak > s.maxStreak {
			s.maxStreak = s.streak
		}
	} else {
		s.lives--
		s.streak = 0
	}

	s.state = Answered
	if s.lives == 0 {
		s.finish(LivesDepleted)
	}

	return AnswerResult{
		IsCorrect:    correct,
		Correct:      q.Correct,
		Gained:       gained,
		Score:        s.score,
		Streak:       s.streak,
		Lives:        s.lives,
		Finished:     s.state == Finished,
		FinishReason: s.reason,
	}, nil
}

// Advance moves past an answered question, finishing on the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Finished:
		return ErrSessionFinished
	case AwaitingAnswer:
		return ErrNotAnswered
	}

	switch {
	case s.lives == 0:
		s.finish(LivesDepleted)
	case s.current == len(s.questions)-1:
		s.finish(ExhaustedQuestions)
	default:
		s.current++
		s.chosen = -1
		s.state = AwaitingAnswer
	}
	return nil
}

func (s *Session) finish(reason FinishReason) {
	s.state = Finished
	s.reason = reason
}

// Result is the summary handed to rewards once a session finishes.
type Result struct {
	Score          int
	CorrectAnswers int
	Answered       int
	TotalQuestions int
	LivesRemaining int
	MaxStreak      int
	Reason         FinishReason
	Answers        []models.Answer
	Questions      []models.Question
}

// Finalize returns the result the first time it is called on a finished
// session and false on every other call.
func (s *Session) Finalize() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Finished || s.finalized {
		return Result{}, false
	}
	s.finalized = true
	return s.resultLocked(), true
}

// Finalized reports whether Finalize has already succeeded.
func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

func (s *Session) resultLocked() Result {
	correct := 0
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		}
	}
	answers := make([]models.Answer, len(s.answers))
	copy(answers, s.answers)
	return Result{
		Score:          s.score,
		CorrectAnswers: correct,
		Answered:       len(s.answers),
		TotalQuestions: len(s.questions),
		LivesRemaining: s.lives,
		MaxStreak:      s.maxStreak,
		Reason:         s.reason,
		Answers:        answers,
		Questions:      s.questions,
	}
}

// QuestionView is the current question as shown to the player. Correct is
// only revealed once the question has been answered.
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Chosen   *int     `json:"chosen,omitempty"`
	Correct  *int     `json:"correct,omitempty"`
}

// View is a point-in-time snapshot of the session.
type View struct {
	State          string          `json:"state"`
	CurrentIndex   int             `json:"currentIndex"`
	TotalQuestions int             `json:"totalQuestions"`
	Lives          int             `json:"lives"`
	Streak         int             `json:"streak"`
	Score          int             `json:"score"`
	FinishReason   FinishReason    `json:"finishReason,omitempty"`
	Question       *QuestionView   `json:"question,omitempty"`
	Answers        []models.Answer `json:"answers"`
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:          s.state.String(),
		CurrentIndex:   s.current,
		TotalQuestions: len(s.questions),
		Lives:          s.lives,
		Streak:         s.streak,
		Score:          s.score,
		FinishReason:   s.reason,
		Answers:        append([]models.Answer{}, s.answers...),
	}
	if s.state != Finished {
		q := s.questions[s.current]
		qv := &QuestionView{Question: q.Question, Options: q.Options}
		if s.state == Answered {
			chosen, correct := s.chosen, q.Correct
			qv.Chosen = &chosen
			qv.Correct = &correct
		}
		v.Question = qv
	}
	return v
}

// State returns the current state and finish reason.
func (s *Session) State() (State, FinishReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.reason
}
