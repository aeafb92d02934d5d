package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential policies for the completion gateway.
const (
	CredentialServer = "server"
	CredentialClient = "client"
)

// RequestTimeout bounds every API request. GroqTimeout must stay below it so
// upstream timeouts surface as the gateway's own error.
const RequestTimeout = 60 * time.Second

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	LogFormat            string
	GroqAPIKey           string
	GroqBaseURL          string
	GroqModel            string
	GroqTimeout          time.Duration
	CredentialPolicy     string
	JWTSecret            string
	TokenTTL             time.Duration
	RateLimitPerMinute   int
	TrustProxy           bool
	SessionTTL           time.Duration
	PersistWorkerCount   int
	PersistQueueSize     int
	DefaultQuestionCount int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:studysmart.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		LogFormat:            envOr("LOG_FORMAT", "text"),
		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:          envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:            envOr("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqTimeout:          envDurationOr("GROQ_TIMEOUT", 30*time.Second),
		CredentialPolicy:     envOr("CREDENTIAL_POLICY", CredentialServer),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		TokenTTL:             envDurationOr("TOKEN_TTL", 7*24*time.Hour),
		RateLimitPerMinute:   envIntOr("RATE_LIMIT_PER_MINUTE", 20),
		TrustProxy:           envBoolOr("TRUST_PROXY", false),
		SessionTTL:           envDurationOr("SESSION_TTL", 2*time.Hour),
		PersistWorkerCount:   envIntOr("PERSIST_WORKER_COUNT", 2),
		PersistQueueSize:     envIntOr("PERSIST_QUEUE_SIZE", 64),
		DefaultQuestionCount: envIntOr("DEFAULT_QUESTION_COUNT", 5),
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}

	level := strings.ToUpper(c.LogLevel)
	switch level {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.LogLevel = level
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be text or json (got %q)", c.LogFormat))
	}

	if u, err := url.Parse(c.GroqBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("GROQ_BASE_URL must be an absolute URL (got %q)", c.GroqBaseURL))
	}
	if c.GroqModel == "" {
		problems = append(problems, "GROQ_MODEL cannot be empty")
	}
	if c.GroqTimeout <= 0 {
		problems = append(problems, "GROQ_TIMEOUT must be positive")
	} else if c.GroqTimeout >= RequestTimeout {
		problems = append(problems, fmt.Sprintf("GROQ_TIMEOUT must be below the %s request timeout (got %s)", RequestTimeout, c.GroqTimeout))
	}

	switch c.CredentialPolicy {
	case CredentialServer, CredentialClient:
	default:
		problems = append(problems, fmt.Sprintf("CREDENTIAL_POLICY must be %q or %q (got %q)", CredentialServer, CredentialClient, c.CredentialPolicy))
	}

	if c.RateLimitPerMinute < 1 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.PersistWorkerCount < 1 {
		problems = append(problems, "PERSIST_WORKER_COUNT must be at least 1")
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, "PERSIST_QUEUE_SIZE must be at least 1")
	}
	if c.DefaultQuestionCount < 3 || c.DefaultQuestionCount > 20 {
		problems = append(problems, "DEFAULT_QUESTION_COUNT must be between 3 and 20")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
