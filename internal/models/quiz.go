package models

import "time"

// Content sources.
const (
	SourceTopic = "topic"
	SourceFile  = "file"
)

// Quiz is a generated, persisted question set.
type Quiz struct {
	ID         string     `json:"id"`
	Owner      Owner      `json:"-"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Source     string     `json:"source"`
	SourceFile string     `json:"sourceFile,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// QuestionReview is a per-question line of a finished attempt.
type QuestionReview struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Correct   int      `json:"correct"`
	Chosen    int      `json:"chosen"`
	IsCorrect bool     `json:"isCorrect"`
}

// QuizAttempt summarizes a finished play session.
type QuizAttempt struct {
	ID             string           `json:"id"`
	Owner          Owner            `json:"-"`
	QuizID         string           `json:"quizId,omitempty"`
	Topic          string           `json:"topic"`
	Difficulty     Difficulty       `json:"difficulty"`
	Score          int              `json:"score"`
	CorrectAnswers int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	Points         int              `json:"points"`
	LivesRemaining int              `json:"livesRemaining"`
	MaxStreak      int              `json:"maxStreak"`
	FinishReason   string           `json:"finishReason"`
	Review         []QuestionReview `json:"review"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// StudyGuide is a generated free-form guide.
type StudyGuide struct {
	ID         string     `json:"id"`
	Owner      Owner      `json:"-"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Content    string     `json:"content"`
	Source     string     `json:"source"`
	SourceFile string     `json:"sourceFile,omitempty"`
	Views      int        `json:"views"`
	CreatedAt  time.Time  `json:"createdAt"`
}
