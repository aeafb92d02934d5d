package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
	"github.com/vytor/studysmart/internal/repository/sqlite"
	"github.com/vytor/studysmart/internal/testutil"
)

type ContentRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	quizzes  repository.QuizRepository
	attempts repository.AttemptRepository
	guides   repository.GuideRepository
	base     time.Time
}

func (s *ContentRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.quizzes = sqlite.NewQuizRepository(s.db)
	s.attempts = sqlite.NewAttemptRepository(s.db)
	s.guides = sqlite.NewGuideRepository(s.db)
	s.base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *ContentRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func sampleQuestions() []models.Question {
	return []models.Question{
		{Question: "¿Qué produce la fotosíntesis?", Options: []string{"Oxígeno", "Hierro", "Sal", "Plomo"}, Correct: 0},
		{Question: "¿Dónde ocurre?", Options: []string{"Núcleo", "Cloroplasto", "Ribosoma", "Pared"}, Correct: 1},
	}
}

func (s *ContentRepositorySuite) TestQuiz_InsertGetList() {
	ctx := context.Background()
	owner := models.DeviceOwner("d1")

	for i, topic := range []string{"Biología", "Historia", "Química"} {
		s.Require().NoError(s.quizzes.Insert(ctx, models.Quiz{
			ID: topic, Owner: owner, Topic: topic, Difficulty: models.Medio, Questions: sampleQuestions(),
			Source: models.SourceTopic, CreatedAt: s.base.Add(time.Duration(i) * time.Hour),
		}))
	}

	q, err := s.quizzes.Get(ctx, "Historia", owner)
	s.Require().NoError(err)
	s.Require().NotNil(q)
	s.Assert().Equal(sampleQuestions(), q.Questions)
	s.Assert().Equal(models.Medio, q.Difficulty)

	missing, err := s.quizzes.Get(ctx, "Historia", models.DeviceOwner("other"))
	s.Require().NoError(err)
	s.Assert().Nil(missing)

	list, err := s.quizzes.List(ctx, owner, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Assert().Equal("Química", list[0].Topic)
	s.Assert().Equal("Historia", list[1].Topic)

	n, err := s.quizzes.Count(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Equal(3, n)

	err = s.quizzes.Insert(ctx, models.Quiz{ID: "Historia", Owner: owner, Topic: "x", Difficulty: models.Facil, CreatedAt: s.base})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *ContentRepositorySuite) TestAttempt_InsertList() {
	ctx := context.Background()
	owner := models.UserOwner("u1")

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.attempts.Insert(ctx, models.QuizAttempt{
			ID: string(rune('a' + i)), Owner: owner, QuizID: "q1", Topic: "Biología", Difficulty: models.Dificil,
			Score: 100 * i, CorrectAnswers: i, TotalQuestions: 3, Points: 10 * i, LivesRemaining: 3 - i,
			MaxStreak: i, FinishReason: "exhausted_questions",
			Review: []models.QuestionReview{{Question: "q", Options: []string{"a", "b", "c", "d"}, Correct: 1, Chosen: 1, IsCorrect: true}},
			CreatedAt: s.base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := s.attempts.List(ctx, owner, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Assert().Equal("c", list[0].ID)
	s.Assert().Equal(200, list[0].Score)
	s.Require().Len(list[0].Review, 1)
	s.Assert().True(list[0].Review[0].IsCorrect)

	none, err := s.attempts.List(ctx, models.UserOwner("u2"), 10)
	s.Require().NoError(err)
	s.Assert().Empty(none)
}

func (s *ContentRepositorySuite) TestGuide_Lifecycle() {
	ctx := context.Background()
	owner := models.DeviceOwner("d1")

	s.Require().NoError(s.guides.Insert(ctx, models.StudyGuide{
		ID: "g1", Owner: owner, Topic: "Célula", Difficulty: models.Facil, Content: "# Guía",
		Source: models.SourceFile, SourceFile: "celula.txt", CreatedAt: s.base,
	}))
	s.Require().NoError(s.guides.IncrementViews(ctx, "g1"))
	s.Require().NoError(s.guides.IncrementViews(ctx, "g1"))

	g, err := s.guides.Get(ctx, "g1", owner)
	s.Require().NoError(err)
	s.Require().NotNil(g)
	s.Assert().Equal(2, g.Views)
	s.Assert().Equal("celula.txt", g.SourceFile)

	list, err := s.guides.List(ctx, owner, 0, 0)
	s.Require().NoError(err)
	s.Assert().Len(list, 1)

	deleted, err := s.guides.Delete(ctx, "g1", models.DeviceOwner("intruder"))
	s.Require().NoError(err)
	s.Assert().False(deleted)

	deleted, err = s.guides.Delete(ctx, "g1", owner)
	s.Require().NoError(err)
	s.Assert().True(deleted)

	g, err = s.guides.Get(ctx, "g1", owner)
	s.Require().NoError(err)
	s.Assert().Nil(g)
}

func (s *ContentRepositorySuite) TestGuide_EmptyContentRejected() {
	err := s.guides.Insert(context.Background(), models.StudyGuide{
		ID: "g2", Owner: models.DeviceOwner("d1"), Topic: "x", Difficulty: models.Facil, CreatedAt: s.base,
	})
	s.Assert().Error(err)
}

func TestContentRepositorySuite(t *testing.T) {
	suite.Run(t, new(ContentRepositorySuite))
}
