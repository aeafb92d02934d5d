package groq_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/groq"
)

const validPrompt = "Genera exactamente 5 preguntas sobre fotosíntesis"

func newClient(t *testing.T, url string, policy string) *groq.Client {
	t.Helper()
	return groq.New(groq.Config{
		BaseURL: url,
		APIKey:  "server-secret",
		Policy:  policy,
		Timeout: 2 * time.Second,
	})
}

func requireAppError(t *testing.T, err error, code string, status int) *errors.AppError {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

func TestComplete_ReturnsRawBody(t *testing.T) {
	upstream := `{"id":"x","model":"llama-3.3-70b-versatile","choices":[{"index":0,"message":{"role":"assistant","content":"[]"}}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer server-secret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(body, &sent))
		assert.Equal(t, "llama-3.3-70b-versatile", sent["model"])
		assert.InDelta(t, 0.7, sent["temperature"], 0.0001)
		assert.EqualValues(t, 3000, sent["max_tokens"])
		msgs := sent["messages"].([]any)
		require.Len(t, msgs, 1)
		assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
		assert.Equal(t, validPrompt, msgs[0].(map[string]any)["content"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstream))
	}))
	defer srv.Close()

	raw, err := newClient(t, srv.URL, groq.PolicyServer).Complete(context.Background(), validPrompt, "")
	require.NoError(t, err)
	assert.Equal(t, upstream, string(raw))
}

func TestComplete_PromptValidation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()
	client := newClient(t, srv.URL, groq.PolicyServer)

	tests := []struct {
		name   string
		prompt string
		code   string
	}{
		{"too short", "corto", errors.ErrCodeValidation},
		{"too long", strings.Repeat("a", groq.MaxPromptLength+1), errors.ErrCodeValidation},
		{"script tag", "Genera preguntas <SCRIPT>alert(1)</script>", errors.ErrCodeContentPolicy},
		{"javascript scheme", "Genera preguntas sobre JavaScript:void(0)", errors.ErrCodeContentPolicy},
		{"eval call", "Genera preguntas usando eval(codigo)", errors.ErrCodeContentPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Complete(context.Background(), tt.prompt, "")
			requireAppError(t, err, tt.code, http.StatusBadRequest)
		})
	}
	assert.Zero(t, calls, "rejected prompts must not reach upstream")
}

func TestComplete_LengthBoundsCountCharacters(t *testing.T) {
	assert.NoError(t, groq.ValidatePrompt(strings.Repeat("ñ", groq.MinPromptLength)))
	assert.NoError(t, groq.ValidatePrompt(strings.Repeat("á", groq.MaxPromptLength)))
}

func TestComplete_UpstreamErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error.message", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"tokens"}}`, "Rate limit reached"},
		{"top-level message", http.StatusUnauthorized, `{"message":"Invalid API Key"}`, "Invalid API Key"},
		{"no message", http.StatusBadGateway, `<html>bad gateway</html>`, "Error 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL, groq.PolicyServer).Complete(context.Background(), validPrompt, "")
			appErr := requireAppError(t, err, errors.ErrCodeAPI, tt.status)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := groq.New(groq.Config{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), validPrompt, "")
	appErr := requireAppError(t, err, errors.ErrCodeTimeout, http.StatusRequestTimeout)
	assert.Equal(t, "Request timeout. Please try again.", appErr.Message)
}

func TestComplete_NetworkFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url, groq.PolicyServer).Complete(context.Background(), validPrompt, "")
	requireAppError(t, err, errors.ErrCodeInternal, http.StatusInternalServerError)
}

func TestComplete_CredentialPolicy(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	t.Run("server ignores client key", func(t *testing.T) {
		_, err := newClient(t, srv.URL, groq.PolicyServer).Complete(context.Background(), validPrompt, "gsk_client")
		require.NoError(t, err)
		assert.Equal(t, "Bearer server-secret", gotAuth)
	})

	t.Run("server without secret", func(t *testing.T) {
		c := groq.New(groq.Config{BaseURL: srv.URL, Policy: groq.PolicyServer})
		_, err := c.Complete(context.Background(), validPrompt, "")
		appErr := requireAppError(t, err, errors.ErrCodeConfig, http.StatusInternalServerError)
		assert.Equal(t, "API key not configured on server", appErr.Message)
	})

	t.Run("client key forwarded", func(t *testing.T) {
		_, err := newClient(t, srv.URL, groq.PolicyClient).Complete(context.Background(), validPrompt, "gsk_abc")
		require.NoError(t, err)
		assert.Equal(t, "Bearer gsk_abc", gotAuth)
	})

	t.Run("client key must start with gsk_", func(t *testing.T) {
		_, err := newClient(t, srv.URL, groq.PolicyClient).Complete(context.Background(), validPrompt, "sk-openai")
		requireAppError(t, err, errors.ErrCodeValidation, http.StatusBadRequest)
	})

	t.Run("client key required", func(t *testing.T) {
		_, err := newClient(t, srv.URL, groq.PolicyClient).Complete(context.Background(), validPrompt, "")
		requireAppError(t, err, errors.ErrCodeValidation, http.StatusBadRequest)
	})
}
