package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/vytor/studysmart/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueQuiz(quiz models.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueGuide(guide models.StudyGuide) error {
	args := m.Called(guide)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueAttempt(attempt models.QuizAttempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}
