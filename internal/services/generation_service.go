package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/extract"
	"github.com/vytor/studysmart/internal/groq"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/prompt"
	"github.com/vytor/studysmart/internal/questions"
)

// GenerationService runs the prompt -> completion -> extraction -> validation
// pipeline. A failed generation never yields a partial result.
type GenerationService interface {
	Relay(ctx context.Context, promptText, apiKey string) ([]byte, error)
	GenerateQuestions(ctx context.Context, req models.GenerationRequest, apiKey string) ([]models.Question, error)
	GenerateGuide(ctx context.Context, req models.GenerationRequest, apiKey string) (string, error)
}

type generationService struct {
	completer groq.Completer
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(completer groq.Completer) GenerationService {
	return &generationService{completer: completer}
}

// Relay forwards a client-built prompt and returns the raw upstream body.
func (s *generationService) Relay(ctx context.Context, promptText, apiKey string) ([]byte, error) {
	return s.completer.Complete(ctx, promptText, apiKey)
}

// ValidateRequest checks a generation request before any upstream call.
func ValidateRequest(req models.GenerationRequest) error {
	var details []errors.FieldError
	if !req.Difficulty.Valid() {
		details = append(details, errors.FieldError{Field: "difficulty", Message: "must be one of facil, medio, dificil, experto"})
	}
	if strings.TrimSpace(req.Topic) == "" && !req.FromText() {
		details = append(details, errors.FieldError{Field: "topic", Message: "topic or source text is required"})
	}
	if req.Mode == models.ModeQuiz && (req.QuestionCount < models.MinQuestionCount || req.QuestionCount > models.MaxQuestionCount) {
		details = append(details, errors.FieldError{Field: "numQuestions", Message: "must be between 3 and 20"})
	}
	if len(details) > 0 {
		return errors.NewValidationErrors(details)
	}
	return nil
}

func (s *generationService) GenerateQuestions(ctx context.Context, req models.GenerationRequest, apiKey string) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("generation")
	req.Mode = models.ModeQuiz
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	log.Debug("generating %d questions: topic=%q difficulty=%s from_text=%t", req.QuestionCount, req.Topic, req.Difficulty, req.FromText())

	raw, err := s.completer.Complete(ctx, prompt.Build(req), apiKey)
	if err != nil {
		return nil, err
	}

	parsed, err := extract.Questions(raw)
	if err != nil {
		log.Warn("completion did not contain a question array: %v", err)
		return nil, errors.NewParseError(err)
	}

	qs, err := questions.Validate(parsed, req.QuestionCount)
	if err != nil {
		var verr *questions.Error
		if stderrors.As(err, &verr) {
			log.Warn("no usable questions: %v", verr)
			return nil, errors.NewSchemaError(err)
		}
		return nil, errors.NewInternalError(err)
	}

	if len(qs) < req.QuestionCount {
		log.Info("upstream returned %d of %d requested questions", len(qs), req.QuestionCount)
	}
	return qs, nil
}

func (s *generationService) GenerateGuide(ctx context.Context, req models.GenerationRequest, apiKey string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("generation")
	req.Mode = models.ModeGuide
	if err := ValidateRequest(req); err != nil {
		return "", err
	}
	log.Debug("generating guide: topic=%q difficulty=%s from_text=%t", req.Topic, req.Difficulty, req.FromText())

	raw, err := s.completer.Complete(ctx, prompt.Build(req), apiKey)
	if err != nil {
		return "", err
	}

	c := extract.Content(raw)
	if c.Content == "" {
		log.Warn("guide completion had no content (shape=%s)", c.Shape)
		return "", errors.NewParseError(&extract.ParseError{Reason: extract.ReasonEmptyContent})
	}
	return c.Content, nil
}
