// Package groq relays prompts to an OpenAI-compatible chat-completion endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/logger"
)

// Credential policies.
const (
	PolicyServer = "server"
	PolicyClient = "client"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 30 * time.Second

	MinPromptLength = 10
	MaxPromptLength = 10000

	temperature  = 0.7
	maxTokens    = 3000
	maxBodyBytes = 4 << 20
)

var (
	denylist = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)eval\(`),
	}
	clientKeyPattern = regexp.MustCompile(`^gsk_`)
)

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Policy  string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	log        *logger.Logger
}

// New creates a client. The per-call deadline comes from cfg.Timeout, so the
// underlying http.Client carries no timeout of its own.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyServer
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		log:        logger.Default().WithPrefix("groq"),
	}
}

// Policy reports the active credential policy.
func (c *Client) Policy() string { return c.cfg.Policy }

// ValidatePrompt applies the length bound and the content denylist.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.NewValidationError("prompt", "El prompt es requerido")
	}
	n := utf8.RuneCountInString(prompt)
	if n < MinPromptLength {
		return errors.NewValidationError("prompt", fmt.Sprintf("El prompt debe tener al menos %d caracteres", MinPromptLength))
	}
	if n > MaxPromptLength {
		return errors.NewValidationError("prompt", fmt.Sprintf("El prompt no puede exceder %d caracteres", MaxPromptLength))
	}
	for _, re := range denylist {
		if re.MatchString(prompt) {
			return errors.NewContentPolicyError()
		}
	}
	return nil
}

// resolveCredential picks the bearer token according to the policy.
func (c *Client) resolveCredential(clientKey string) (string, error) {
	if c.cfg.Policy == PolicyClient {
		if clientKey == "" {
			return "", errors.NewValidationError("apiKey", "La API key es requerida")
		}
		if !clientKeyPattern.MatchString(clientKey) {
			return "", errors.NewValidationError("apiKey", `La API key debe empezar con "gsk_"`)
		}
		return clientKey, nil
	}
	if c.cfg.APIKey == "" {
		return "", errors.NewConfigError("API key not configured on server")
	}
	return c.cfg.APIKey, nil
}

// Complete sends one chat-completion request and returns the raw upstream
// body on 2xx. It never retries.
func (c *Client) Complete(ctx context.Context, prompt, clientKey string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("groq").WithField("model", c.cfg.Model)

	if err := ValidatePrompt(prompt); err != nil {
		log.Debug("prompt rejected: %v", err)
		return nil, err
	}
	key, err := c.resolveCredential(clientKey)
	if err != nil {
		log.Warn("credential unavailable: %v", err)
		return nil, err
	}

	body, err := json.Marshal(openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("encode request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	log.Debug("sending completion request, prompt_chars=%d", utf8.RuneCountInString(prompt))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, log, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportError(ctx, log, err)
	}

	log.Debug("completion response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(raw, resp.StatusCode)
		log.Error("completion request failed: status=%d, message=%s", resp.StatusCode, msg)
		return nil, errors.NewAPIError(resp.StatusCode, msg)
	}

	if !gjson.ValidBytes(raw) {
		log.Error("completion body is not JSON")
		return nil, errors.NewInternalError(fmt.Errorf("upstream returned a non-JSON body"))
	}

	c.logUsage(log, raw)
	return raw, nil
}

func (c *Client) transportError(ctx context.Context, log *logger.Logger, err error) error {
	if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		log.Warn("completion request timed out after %v: %v", c.cfg.Timeout, err)
		return errors.NewTimeoutError(err)
	}
	log.Error("completion request failed: %v", err)
	return errors.NewInternalError(err)
}

func (c *Client) logUsage(log *logger.Logger, raw []byte) {
	if !log.Enabled(logger.INFO) {
		return
	}
	var out openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Info("completion received (%d bytes, non-standard shape)", len(raw))
		return
	}
	log.Info("completion received: model=%s prompt_tokens=%d completion_tokens=%d",
		out.Model, out.Usage.PromptTokens, out.Usage.CompletionTokens)
}

// upstreamMessage takes error.message, then message, then "Error <status>".
func upstreamMessage(raw []byte, status int) string {
	for _, path := range []string{"error.message", "message"} {
		if r := gjson.GetBytes(raw, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return fmt.Sprintf("Error %d", status)
}
