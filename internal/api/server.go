package api

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vytor/studysmart/internal/services"
)

// Pinger reports whether the backing store can serve requests.
type Pinger interface {
	Ready(ctx context.Context) error
}

// Server serves the HTTP API. With TrustProxy set the rate limiter keys on
// X-Forwarded-For, so enable it only behind a proxy that sets the header.
type Server struct {
	DB                   Pinger
	GenerationService    services.GenerationService
	QuizService          services.QuizService
	GuideService         services.GuideService
	StatsService         services.StatsService
	AuthService          services.AuthService
	Version              string
	DefaultQuestionCount int
	RateLimitPerMinute   int
	TrustProxy           bool

	limiter  *ipLimiter
	validate *validator.Validate
	now      func() time.Time
}

// init prepares the unexported collaborators. Routes calls it, so a Server
// built as a struct literal is usable.
func (s *Server) init() {
	if s.Version == "" {
		s.Version = "1.0.0"
	}
	if s.DefaultQuestionCount == 0 {
		s.DefaultQuestionCount = 5
	}
	if s.RateLimitPerMinute <= 0 {
		s.RateLimitPerMinute = 20
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
		s.validate.RegisterTagNameFunc(jsonFieldName)
	}
	if s.limiter == nil {
		s.limiter = newIPLimiter(s.RateLimitPerMinute, s.now)
	}
}
