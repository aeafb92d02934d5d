package jobs

import "github.com/vytor/studysmart/internal/models"

// JobQueue provides an abstraction for persisting generated content in the
// background
type JobQueue interface {
	EnqueueQuiz(quiz models.Quiz) error
	EnqueueGuide(guide models.StudyGuide) error
	EnqueueAttempt(attempt models.QuizAttempt) error
}
