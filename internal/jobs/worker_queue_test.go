package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository/sqlite"
	"github.com/vytor/studysmart/internal/testutil"
	"github.com/vytor/studysmart/internal/worker"
)

func TestWorkerQueue_PersistsThroughPool(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)

	quizzes := sqlite.NewQuizRepository(db)
	guides := sqlite.NewGuideRepository(db)
	attempts := sqlite.NewAttemptRepository(db)

	pool := worker.NewPool(1, 8)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, quizzes, guides, attempts)

	owner := models.DeviceOwner("d1")
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, q.EnqueueQuiz(models.Quiz{
		ID: "q1", Owner: owner, Topic: "Historia", Difficulty: models.Facil,
		Questions: []models.Question{{Question: "?", Options: []string{"a", "b", "c", "d"}}}, Source: models.SourceTopic, CreatedAt: now,
	}))
	require.NoError(t, q.EnqueueGuide(models.StudyGuide{
		ID: "g1", Owner: owner, Topic: "Historia", Difficulty: models.Facil, Content: "# Guía", Source: models.SourceTopic, CreatedAt: now,
	}))
	require.NoError(t, q.EnqueueAttempt(models.QuizAttempt{
		ID: "a1", Owner: owner, QuizID: "q1", Topic: "Historia", Difficulty: models.Facil, FinishReason: "exhausted_questions", CreatedAt: now,
	}))
	pool.Stop()

	ctx := context.Background()
	quiz, err := quizzes.Get(ctx, "q1", owner)
	require.NoError(t, err)
	assert.NotNil(t, quiz)

	guide, err := guides.Get(ctx, "g1", owner)
	require.NoError(t, err)
	assert.NotNil(t, guide)

	list, err := attempts.List(ctx, owner, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkerQueue_RunsInlineWhenPoolStopped(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)

	guides := sqlite.NewGuideRepository(db)
	pool := worker.NewPool(1, 1)
	pool.Stop()

	q := jobs.NewWorkerQueue(pool, sqlite.NewQuizRepository(db), guides, sqlite.NewAttemptRepository(db))
	owner := models.DeviceOwner("d1")
	require.NoError(t, q.EnqueueGuide(models.StudyGuide{
		ID: "g1", Owner: owner, Topic: "t", Difficulty: models.Medio, Content: "x", Source: models.SourceTopic,
	}))

	g, err := guides.Get(context.Background(), "g1", owner)
	require.NoError(t, err)
	assert.NotNil(t, g)
}
