package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/ai"
	"github.com/amishk599/firstround/internal/config"
	"github.com/amishk599/firstround/internal/extract"
	"github.com/amishk599/firstround/internal/model"
	"github.com/amishk599/firstround/internal/session"
	"github.com/amishk599/firstround/internal/store"
)

var (
	cfgPath string
	debug   bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "firstround",
	Short: "Interview questions from a résumé and a job description",
	Long:  "FirstRound extracts text from a candidate résumé and a job description and asks an LLM for tailored interview questions, saving them to SQLite.",
	// Default to the interactive form so that `firstround` with no args opens it.
	RunE:         runTUI,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: FIRSTROUND_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "generate questions without writing to the database")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > FIRSTROUND_CONFIG env var > "./config.yaml" > defaults
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	return config.Load(config.Resolve(path))
}

// mustLoadConfig exits the process when configuration is unusable.
func mustLoadConfig(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.LLMProvider, error) {
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		logger.Debug("using openai provider", "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)
		return ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient), nil
	default:
		logger.Debug("using gemini provider", "model", cfg.AI.Model)
		return ai.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, httpClient)
	}
}

// openStore returns the write store and a cleanup func. In dry-run mode,
// a NopStore is used so nothing is persisted.
func openStore(cfg *config.Config, logger *slog.Logger) (model.QuestionStore, func(), error) {
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be saved")
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return sqlStore, func() { _ = sqlStore.Close() }, nil
}

// buildOrchestrator wires extractor, store and generator into a session
// orchestrator. The returned cleanup closes the store.
func buildOrchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Orchestrator, func(), error) {
	provider, err := setupProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	qs, cleanup, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	gen := ai.NewQuestionGenerator(provider, ai.InterviewQuestionsTemplate, cfg.AI.Timeout, logger)
	orch := session.NewOrchestrator(extract.NewExtractor(), qs, gen, cfg.JobTitle, logger)
	return orch, cleanup, nil
}

// readDocument loads a file named by a flag into a Document.
func readDocument(path string) (*model.Document, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &model.Document{Name: path, Data: data}, nil
}

func printQuestions(w io.Writer, state session.State) {
	fmt.Fprintf(w, "candidate_id=%d job_id=%d\n\n", state.CandidateID, state.JobID)
	if len(state.Questions) == 0 {
		fmt.Fprintln(w, "(no questions parsed from the model response)")
		return
	}
	for _, q := range state.Questions {
		fmt.Fprintln(w, q)
	}
}
