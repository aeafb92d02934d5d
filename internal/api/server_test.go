package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/quiz"
	"github.com/vytor/studysmart/internal/repository/sqlite"
	"github.com/vytor/studysmart/internal/rewards"
	"github.com/vytor/studysmart/internal/services"
	"github.com/vytor/studysmart/internal/testutil"
	"github.com/vytor/studysmart/internal/testutil/mocks"
	"github.com/vytor/studysmart/internal/worker"
)

type APISuite struct {
	suite.Suite
	db        *sql.DB
	completer *mocks.MockCompleter
	server    *Server
	handler   http.Handler
	device    *http.Cookie
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.completer = new(mocks.MockCompleter)
	s.device = nil

	// A stopped pool makes every write run inline, so reads see it at once.
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	quizRepo := sqlite.NewQuizRepository(s.db)
	guideRepo := sqlite.NewGuideRepository(s.db)
	attemptRepo := sqlite.NewAttemptRepository(s.db)
	statsRepo := sqlite.NewStatsRepository(s.db)
	queue := jobs.NewWorkerQueue(pool, quizRepo, guideRepo, attemptRepo)
	rewardsSvc := rewards.NewService(statsRepo)
	generation := services.NewGenerationService(s.completer)

	s.server = &Server{
		GenerationService:  generation,
		QuizService:        services.NewQuizService(generation, quiz.NewRegistry(time.Hour), rewardsSvc, quizRepo, queue),
		GuideService:       services.NewGuideService(generation, guideRepo, queue),
		StatsService:       services.NewStatsService(rewardsSvc, statsRepo, attemptRepo),
		AuthService:        services.NewAuthService(sqlite.NewUserRepository(s.db), "test-secret", time.Hour),
		RateLimitPerMinute: 1000,
	}
	s.handler = s.server.Routes()
}

func (s *APISuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

type reqOpt func(*http.Request)

func withToken(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withForwardedFor(xff string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", xff) }
}

func (s *APISuite) do(method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.device != nil {
		req.AddCookie(s.device)
	}
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == deviceCookieName {
			s.device = c
		}
	}
	return rec
}

func decode[T any](s *APISuite, rec *httptest.ResponseRecorder) T {
	var v T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func chatBody(content string) []byte {
	b, _ := json.Marshal(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
		}},
	})
	return b
}

func questionArray(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"question":"Pregunta %d","options":["A","B","C","D"],"correct":0}`, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	body := decode[map[string]string](s, rec)
	s.Equal("ok", body["status"])
	s.Equal("1.0.0", body["version"])
	_, err := time.Parse(time.RFC3339Nano, body["timestamp"])
	s.NoError(err)

	rec = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Ready", rec.Body.String())
}

func (s *APISuite) TestNotFoundListsEndpoints() {
	rec := s.do(http.MethodGet, "/api/nope?x=1", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	body := decode[map[string]any](s, rec)
	s.Equal("Endpoint not found", body["error"])
	s.Equal("/api/nope?x=1", body["path"])
	s.NotEmpty(body["availableEndpoints"])
}

func (s *APISuite) TestRateLimit() {
	s.server.RateLimitPerMinute = 2
	s.server.limiter = nil
	s.handler = s.server.Routes()

	for i := 0; i < 2; i++ {
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/health", nil).Code)
	}
	rec := s.do(http.MethodGet, "/api/rate-limit", nil)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("60", rec.Header().Get("Retry-After"))

	body := decode[map[string]any](s, rec)
	s.Equal("Too many requests. Please try again later.", body["error"])
	s.Equal(errors.ErrCodeRateLimited, body["type"])
	s.EqualValues(60, body["retryAfter"])

	// probes are outside the limiter
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", nil).Code)
}

func (s *APISuite) TestRateLimitIgnoresForwardedForByDefault() {
	s.server.RateLimitPerMinute = 2
	s.server.limiter = nil
	s.handler = s.server.Routes()

	rejected := 0
	for i := 0; i < 10; i++ {
		rec := s.do(http.MethodGet, "/api/health", nil, withForwardedFor(fmt.Sprintf("198.51.100.%d", i)))
		if rec.Code == http.StatusTooManyRequests {
			rejected++
		}
	}
	s.Equal(8, rejected)
}

func (s *APISuite) TestRateLimitTrustsProxyWhenEnabled() {
	s.server.RateLimitPerMinute = 2
	s.server.TrustProxy = true
	s.server.limiter = nil
	s.handler = s.server.Routes()

	for i := 0; i < 10; i++ {
		rec := s.do(http.MethodGet, "/api/health", nil, withForwardedFor(fmt.Sprintf("198.51.100.%d, 10.0.0.1", i)))
		s.Equal(http.StatusOK, rec.Code)
	}
	for i := 0; i < 2; i++ {
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/health", nil, withForwardedFor("198.51.100.200")).Code)
	}
	s.Equal(http.StatusTooManyRequests, s.do(http.MethodGet, "/api/health", nil, withForwardedFor("198.51.100.200")).Code)
}

func (s *APISuite) TestPromptTemplates() {
	rec := s.do(http.MethodGet, "/api/prompts/templates", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "{topic}")
}

func (s *APISuite) TestGenerateQuizRelaysBody() {
	upstream := chatBody(questionArray(3))
	s.completer.On("Complete", mock.Anything, "Genera preguntas sobre biología", "gsk_abc").Return(upstream, nil)

	rec := s.do(http.MethodPost, "/api/generate-quiz", map[string]string{
		"prompt": "Genera preguntas sobre biología", "apiKey": "gsk_abc",
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.Equal(upstream, rec.Body.Bytes())
}

func (s *APISuite) TestGenerateQuizErrorKinds() {
	s.completer.On("Complete", mock.Anything, "<script>alert(1)</script>", "").Return(nil, errors.NewContentPolicyError()).Once()
	s.completer.On("Complete", mock.Anything, "tarda demasiado", "").Return(nil, errors.NewTimeoutError(context.DeadlineExceeded)).Once()

	rec := s.do(http.MethodPost, "/api/generate-quiz", map[string]string{"prompt": "<script>alert(1)</script>"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(errors.ErrCodeContentPolicy, decode[map[string]any](s, rec)["type"])

	rec = s.do(http.MethodPost, "/api/generate-quiz", map[string]string{"prompt": "tarda demasiado"})
	s.Equal(http.StatusRequestTimeout, rec.Code)
	s.Equal(errors.ErrCodeTimeout, decode[map[string]any](s, rec)["type"])

	rec = s.do(http.MethodPost, "/api/generate-quiz", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestQuizFlowAwardsPointsOnce() {
	s.completer.On("Complete", mock.Anything, mock.Anything, "").Return(chatBody(questionArray(5)), nil)

	rec := s.do(http.MethodPost, "/api/quizzes", map[string]any{
		"topic": "Photosynthesis", "difficulty": "Medio", "numQuestions": 5,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Require().NotNil(s.device)
	start := decode[services.QuizStart](s, rec)
	s.Equal("awaiting_answer", start.View.State)

	var last services.SessionState
	for i := 0; i < 5; i++ {
		rec = s.do(http.MethodPost, "/api/sessions/"+start.ID+"/answer", map[string]int{"option": 0})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		rec = s.do(http.MethodPost, "/api/sessions/"+start.ID+"/next", nil)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		last = decode[services.SessionState](s, rec)
	}
	s.Require().NotNil(last.Summary)
	s.Equal(600, last.View.Score)
	s.Equal(20, last.Summary.Points)

	rec = s.do(http.MethodPost, "/api/sessions/"+start.ID+"/next", nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	stats := decode[map[string]any](s, rec)
	s.EqualValues(20, stats["totalPoints"])
	s.EqualValues(1, stats["totalQuizzes"])
	s.EqualValues(100, stats["accuracyPercentage"])

	rec = s.do(http.MethodGet, "/api/stats/points", nil)
	s.Contains(rec.Body.String(), `"topic":"Photosynthesis"`)

	rec = s.do(http.MethodGet, "/api/stats/attempts", nil)
	s.Contains(rec.Body.String(), start.Quiz.ID)

	rec = s.do(http.MethodGet, "/api/quizzes", nil)
	list := decode[map[string]any](s, rec)
	s.EqualValues(1, list["total"])

	rec = s.do(http.MethodPost, "/api/quizzes/"+start.Quiz.ID+"/play", nil)
	s.Equal(http.StatusCreated, rec.Code)
	s.NotEqual(start.ID, decode[services.QuizStart](s, rec).ID)
}

func (s *APISuite) TestSessionsAreScopedToOwner() {
	s.completer.On("Complete", mock.Anything, mock.Anything, "").Return(chatBody(questionArray(3)), nil)
	rec := s.do(http.MethodPost, "/api/quizzes", map[string]any{"topic": "Historia", "difficulty": "facil", "numQuestions": 3})
	s.Require().Equal(http.StatusCreated, rec.Code)
	start := decode[services.QuizStart](s, rec)

	s.device = nil
	rec = s.do(http.MethodGet, "/api/sessions/"+start.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/api/quizzes/"+start.Quiz.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestCreateQuizValidation() {
	rec := s.do(http.MethodPost, "/api/quizzes", map[string]any{"numQuestions": 5})
	s.Equal(http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](s, rec)
	s.Equal(errors.ErrCodeValidation, body["type"])
	s.Contains(fmt.Sprint(body["details"]), "difficulty")
	s.Contains(fmt.Sprint(body["details"]), "topic")

	rec = s.do(http.MethodPost, "/api/quizzes", map[string]any{"topic": "x", "difficulty": "imposible", "numQuestions": 40})
	s.Equal(http.StatusBadRequest, rec.Code)
	body = decode[map[string]any](s, rec)
	s.Contains(fmt.Sprint(body["details"]), "numQuestions")
	s.completer.AssertNotCalled(s.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)

	rec = s.do(http.MethodPost, "/api/sessions/missing/answer", map[string]any{})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestSourceTextCappedAtUploadLimit() {
	s.completer.On("Complete", mock.Anything, mock.Anything, "").Return(chatBody(questionArray(5)), nil)
	unit := "La célula respira. "

	rec := s.do(http.MethodPost, "/api/quizzes", map[string]any{
		"sourceText": strings.Repeat(unit, 8000/len([]rune(unit))) + "xy", "difficulty": "medio",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	details := fmt.Sprint(decode[map[string]any](s, rec)["details"])
	s.Contains(details, "sourceText")
	s.NotContains(details, "prompt")
	s.completer.AssertNotCalled(s.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)

	rec = s.do(http.MethodPost, "/api/quizzes", map[string]any{
		"sourceText": strings.Repeat(unit, 8000/len([]rune(unit))), "difficulty": "medio",
	})
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *APISuite) TestGuideLifecycle() {
	s.completer.On("Complete", mock.Anything, mock.Anything, "").Return(chatBody("# Guía\n\nContenido de estudio."), nil)

	rec := s.do(http.MethodPost, "/api/guides", map[string]any{"topic": "Células", "difficulty": "dificil"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	guide := decode[map[string]any](s, rec)
	id := guide["id"].(string)

	rec = s.do(http.MethodGet, "/api/guides/"+id, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(1, decode[map[string]any](s, rec)["views"])

	rec = s.do(http.MethodGet, "/api/guides", nil)
	s.Contains(rec.Body.String(), id)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/guides/"+id, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/guides/"+id, nil).Code)
}

func (s *APISuite) upload(name string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	s.Require().NoError(err)
	_, err = fw.Write(data)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) TestUpload() {
	text := strings.Repeat("La mitocondria genera energía celular mediante respiración. ", 5)
	rec := s.upload("biologia.txt", []byte(text))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](s, rec)
	s.Equal("biologia.txt", body["fileName"])
	s.Contains(body["topics"], "Mitocondria")

	rec = s.upload("corto.txt", []byte("muy corto"))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "demasiado corto")

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 200)...)
	rec = s.upload("imagen.txt", png)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "plain text")
}

func (s *APISuite) TestAuthFlow() {
	rec := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ana", "email": "Ana@Example.com", "password": "secreto1",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[services.AuthResult](s, rec)
	s.NotEmpty(reg.Token)
	s.Equal("ana@example.com", reg.User.Email)
	s.NotContains(rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ana", "email": "otra@example.com", "password": "secreto1",
	})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "mal"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "secreto1"})
	s.Require().Equal(http.StatusOK, rec.Code)
	login := decode[services.AuthResult](s, rec)

	rec = s.do(http.MethodGet, "/api/auth/me", nil, withToken(login.Token))
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("ana", decode[map[string]any](s, rec)["username"])

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", nil, withToken("garbage")).Code)

	rec = s.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "b", "email": "nope", "password": "1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	details := fmt.Sprint(decode[map[string]any](s, rec)["details"])
	s.Contains(details, "username")
	s.Contains(details, "email")
	s.Contains(details, "password")

	// 40 characters pass the length tag but take 80 bytes
	rec = s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "nuria", "email": "nuria@example.com", "password": strings.Repeat("ñ", 40),
	})
	s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decode[map[string]any](s, rec)
	s.Equal(errors.ErrCodeValidation, body["type"])
	s.Contains(fmt.Sprint(body["details"]), "password")
}

func (s *APISuite) TestLeaderboard() {
	rec := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "luis", "email": "luis@example.com", "password": "secreto1",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/stats/leaderboard?sortBy=dailyStreak", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	body := decode[map[string]any](s, rec)
	s.Equal("dailyStreak", body["sortBy"])

	rec = s.do(http.MethodGet, "/api/stats/leaderboard?sortBy=bogus", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/stats/leaderboard?limit=-1", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}
