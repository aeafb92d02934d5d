package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studysmart/internal/api"
	"github.com/vytor/studysmart/internal/config"
	"github.com/vytor/studysmart/internal/db"
	"github.com/vytor/studysmart/internal/groq"
	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/quiz"
	"github.com/vytor/studysmart/internal/repository/sqlite"
	"github.com/vytor/studysmart/internal/rewards"
	"github.com/vytor/studysmart/internal/services"
	"github.com/vytor/studysmart/internal/worker"
)

const sweepInterval = 5 * time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(cfg.LogFormat != "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("StudySmart Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("groq_base_url=%s model=%s timeout=%s", cfg.GroqBaseURL, cfg.GroqModel, cfg.GroqTimeout)
	log.Debug("credential_policy=%s", cfg.CredentialPolicy)
	log.Debug("rate_limit_per_minute=%d", cfg.RateLimitPerMinute)
	log.Debug("persist_worker_count=%d persist_queue_size=%d", cfg.PersistWorkerCount, cfg.PersistQueueSize)

	if cfg.CredentialPolicy == config.CredentialServer && cfg.GroqAPIKey == "" {
		log.Warn("GROQ_API_KEY is not set; generation requests will fail with config_error")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		log.Warn("JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	quizRepo := sqlite.NewQuizRepository(database.DB)
	guideRepo := sqlite.NewGuideRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)

	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	queue := jobs.NewWorkerQueue(persistPool, quizRepo, guideRepo, attemptRepo)

	completer := groq.New(groq.Config{
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		APIKey:  cfg.GroqAPIKey,
		Policy:  cfg.CredentialPolicy,
		Timeout: cfg.GroqTimeout,
	})
	registry := quiz.NewRegistry(cfg.SessionTTL)
	rewardsService := rewards.NewService(statsRepo)
	generationService := services.NewGenerationService(completer)

	srv := &api.Server{
		DB:                   database,
		GenerationService:    generationService,
		QuizService:          services.NewQuizService(generationService, registry, rewardsService, quizRepo, queue),
		GuideService:         services.NewGuideService(generationService, guideRepo, queue),
		StatsService:         services.NewStatsService(rewardsService, statsRepo, attemptRepo),
		AuthService:          services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL),
		DefaultQuestionCount: cfg.DefaultQuestionCount,
		RateLimitPerMinute:   cfg.RateLimitPerMinute,
		TrustProxy:           cfg.TrustProxy,
	}

	ctx, cancel := context.WithCancel(context.Background())
	persistPool.Start(ctx)
	go sweepSessions(ctx, registry, log)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued writes are drained before the database closes.
	log.Debug("stopping persistence pool")
	persistPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("StudySmart Server Stopped")
	log.Info("===========================================")
}

func sweepSessions(ctx context.Context, registry *quiz.Registry, log *logger.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(); n > 0 {
				log.Debug("evicted %d idle sessions", n)
			}
		}
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
