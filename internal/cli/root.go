// Package cli is the studysmart terminal client: generate and play quizzes,
// print study guides and inspect stats against the local database.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/studysmart/internal/config"
	"github.com/vytor/studysmart/internal/db"
	"github.com/vytor/studysmart/internal/groq"
	"github.com/vytor/studysmart/internal/jobs"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/quiz"
	"github.com/vytor/studysmart/internal/repository/sqlite"
	"github.com/vytor/studysmart/internal/rewards"
	"github.com/vytor/studysmart/internal/services"
	"github.com/vytor/studysmart/internal/studytext"
	"github.com/vytor/studysmart/internal/worker"
)

const defaultOwner = "cli"

// newCompleter builds the upstream client; tests swap it for a fake.
var newCompleter = func(cfg config.Config) groq.Completer {
	return groq.New(groq.Config{
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		APIKey:  cfg.GroqAPIKey,
		Policy:  cfg.CredentialPolicy,
		Timeout: cfg.GroqTimeout,
	})
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studysmart",
		Short:         "AI quizzes and study guides in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH)")
	root.PersistentFlags().String("api-key", "", "Groq API key sent with each request (gsk_...)")
	root.PersistentFlags().String("owner", defaultOwner, "Stats owner: a device name, or user:<id>")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newQuizCmd(), newGuideCmd(), newStatsCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	db      *db.DB
	pool    *worker.Pool
	quizzes services.QuizService
	guides  services.GuideService
	stats   services.StatsService
	apiKey  string
	owner   models.Owner
	log     *logger.Logger
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	level := logger.WARN
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = logger.DEBUG
	}
	log := logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(level))
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	quizRepo := sqlite.NewQuizRepository(database.DB)
	guideRepo := sqlite.NewGuideRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	pool := worker.NewPool(1, cfg.PersistQueueSize)
	pool.Start(context.Background())
	queue := jobs.NewWorkerQueue(pool, quizRepo, guideRepo, attemptRepo)

	rewardsService := rewards.NewService(statsRepo)
	generation := services.NewGenerationService(newCompleter(cfg))

	apiKey, _ := cmd.Flags().GetString("api-key")
	owner, _ := cmd.Flags().GetString("owner")

	return &app{
		cfg:     cfg,
		db:      database,
		pool:    pool,
		quizzes: services.NewQuizService(generation, quiz.NewRegistry(0), rewardsService, quizRepo, queue),
		guides:  services.NewGuideService(generation, guideRepo, queue),
		stats:   services.NewStatsService(rewardsService, statsRepo, attemptRepo),
		apiKey:  apiKey,
		owner:   parseOwner(owner),
		log:     log,
	}, nil
}

// Close drains pending writes and closes the database.
func (a *app) Close() {
	a.pool.Stop()
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database: %v", err)
	}
}

func parseOwner(s string) models.Owner {
	s = strings.TrimSpace(s)
	if s == "" {
		s = defaultOwner
	}
	if strings.HasPrefix(s, "user:") || strings.HasPrefix(s, "device:") {
		return models.Owner(s)
	}
	return models.DeviceOwner(s)
}

// generationFlags adds the flags shared by quiz and guide.
func generationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("topic", "t", "", "Topic to study")
	cmd.Flags().StringP("file", "f", "", "Plain text file to study from")
	cmd.Flags().StringP("difficulty", "d", string(models.Medio), "facil, medio, dificil or experto")
}

// readRequest builds a generation request from the shared flags. A file is
// cleaned and must be long enough to generate from.
func readRequest(cmd *cobra.Command, mode models.Mode) (models.GenerationRequest, error) {
	topic, _ := cmd.Flags().GetString("topic")
	file, _ := cmd.Flags().GetString("file")
	diff, _ := cmd.Flags().GetString("difficulty")

	d, err := models.ParseDifficulty(diff)
	if err != nil {
		return models.GenerationRequest{}, err
	}
	if topic == "" && file == "" {
		return models.GenerationRequest{}, fmt.Errorf("one of --topic or --file is required")
	}

	req := models.GenerationRequest{Mode: mode, Topic: strings.TrimSpace(topic), Difficulty: d}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return models.GenerationRequest{}, fmt.Errorf("read %s: %w", file, err)
		}
		p, err := studytext.Process(string(data), filepath.Base(file))
		if err != nil {
			return models.GenerationRequest{}, err
		}
		req.SourceText = p.Text
		req.SourceName = p.FileName
		if len(p.Topics) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Temas detectados: %s\n", strings.Join(p.Topics, ", "))
		}
	}
	return req, nil
}
