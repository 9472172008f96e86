package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/session"
	"github.com/amishk599/firstround/internal/tui"
)

var (
	genName         string
	genResumePath   string
	genJDPath       string
	genNumQuestions int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions for a new candidate and job description",
	Long:  "Headless Generate: stores the candidate and job description, asks the model for questions and prints them.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genName, "name", "", "candidate name")
	generateCmd.Flags().StringVar(&genResumePath, "resume", "", "path to résumé PDF")
	generateCmd.Flags().StringVar(&genJDPath, "jd", "", "path to job description PDF")
	generateCmd.Flags().IntVarP(&genNumQuestions, "num", "n", 0, "number of questions (default from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch, cleanup, err := buildOrchestrator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readDocument(genResumePath)
	if err != nil {
		return err
	}
	jd, err := readDocument(genJDPath)
	if err != nil {
		return err
	}
	n := genNumQuestions
	if n == 0 {
		n = cfg.DefaultNumQuestions
	}

	var state session.State
	run := func(ctx context.Context) error {
		var err error
		state, err = orch.Generate(ctx, session.State{}, session.GenerateInput{
			CandidateName:  genName,
			Resume:         resume,
			JobDescription: jd,
			NumQuestions:   n,
		})
		return err
	}
	err = runWithSpinner(ctx, "Generating questions", run)
	if state.HasRecord() {
		printQuestions(cmd.OutOrStdout(), state)
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}

// runWithSpinner shows the inline loader when stdout is a terminal.
func runWithSpinner(ctx context.Context, label string, run func(ctx context.Context) error) error {
	if debug || !isatty.IsTerminal(os.Stdout.Fd()) {
		return run(ctx)
	}
	return tui.RunLoader(ctx, label, run)
}
