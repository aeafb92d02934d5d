package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studysmart/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		DBPath:               "test.db",
		LogLevel:             "INFO",
		LogFormat:            "text",
		GroqBaseURL:          "https://api.groq.com/openai/v1",
		GroqModel:            "llama-3.3-70b-versatile",
		GroqTimeout:          30 * time.Second,
		CredentialPolicy:     config.CredentialServer,
		TokenTTL:             time.Hour,
		RateLimitPerMinute:   20,
		SessionTTL:           time.Hour,
		PersistWorkerCount:   2,
		PersistQueueSize:     64,
		DefaultQuestionCount: 5,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "invalid level", level: "INVALID", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
		{name: "lowercase valid level", level: "debug"},
		{name: "upper warn", level: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_NormalizesLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestValidate_CredentialPolicy(t *testing.T) {
	for _, policy := range []string{config.CredentialServer, config.CredentialClient} {
		t.Run(policy, func(t *testing.T) {
			cfg := validConfig()
			cfg.CredentialPolicy = policy
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.CredentialPolicy = "browser"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CREDENTIAL_POLICY")
}

func TestValidate_QuestionCountBounds(t *testing.T) {
	tests := []struct {
		name  string
		count int
		ok    bool
	}{
		{name: "below minimum", count: 2},
		{name: "minimum", count: 3, ok: true},
		{name: "maximum", count: 20, ok: true},
		{name: "above maximum", count: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.DefaultQuestionCount = tt.count
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "DEFAULT_QUESTION_COUNT")
			}
		})
	}
}

func TestValidate_GroqTimeoutBelowRequestTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.GroqTimeout = config.RequestTimeout
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_TIMEOUT must be below")

	cfg.GroqTimeout = 2 * time.Minute
	assert.Error(t, cfg.Validate())

	cfg.GroqTimeout = config.RequestTimeout - time.Second
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		LogLevel:         "INVALID",
		GroqBaseURL:      "not a url",
		CredentialPolicy: "nope",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "GROQ_BASE_URL")
	assert.Contains(t, errStr, "GROQ_MODEL")
	assert.Contains(t, errStr, "GROQ_TIMEOUT")
	assert.Contains(t, errStr, "CREDENTIAL_POLICY")
	assert.Contains(t, errStr, "RATE_LIMIT_PER_MINUTE")
	assert.Contains(t, errStr, "PERSIST_WORKER_COUNT")
	assert.Contains(t, errStr, "PERSIST_QUEUE_SIZE")
	assert.Contains(t, errStr, "DEFAULT_QUESTION_COUNT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("GROQ_TIMEOUT", "10s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("CREDENTIAL_POLICY", "client")
	t.Setenv("TRUST_PROXY", "true")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 10*time.Second, cfg.GroqTimeout)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.Equal(t, config.CredentialClient, cfg.CredentialPolicy)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
}
