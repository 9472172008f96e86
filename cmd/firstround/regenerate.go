package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/session"
)

var (
	regenCandidateID  int64
	regenJobID        int64
	regenResumePath   string
	regenJDPath       string
	regenPrompt       string
	regenNumQuestions int
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate questions for a stored pair with a custom prompt",
	Long:  "Headless Regenerate: re-extracts both documents, sends the custom prompt verbatim and overwrites the stored questions of the given candidate/job pair.",
	RunE:  runRegenerate,
}

func init() {
	regenerateCmd.Flags().Int64Var(&regenCandidateID, "candidate-id", 0, "stored candidate id")
	regenerateCmd.Flags().Int64Var(&regenJobID, "job-id", 0, "stored job description id")
	regenerateCmd.Flags().StringVar(&regenResumePath, "resume", "", "path to résumé PDF")
	regenerateCmd.Flags().StringVar(&regenJDPath, "jd", "", "path to job description PDF")
	regenerateCmd.Flags().StringVar(&regenPrompt, "prompt", "", "custom prompt sent verbatim to the model")
	regenerateCmd.Flags().IntVarP(&regenNumQuestions, "num", "n", 0, "number of questions (default from config)")
	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch, cleanup, err := buildOrchestrator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	resume, err := readDocument(regenResumePath)
	if err != nil {
		return err
	}
	jd, err := readDocument(regenJDPath)
	if err != nil {
		return err
	}
	n := regenNumQuestions
	if n == 0 {
		n = cfg.DefaultNumQuestions
	}

	prev := session.State{CandidateID: regenCandidateID, JobID: regenJobID}
	state := prev
	run := func(ctx context.Context) error {
		var err error
		state, err = orch.Regenerate(ctx, prev, session.RegenerateInput{
			CustomPrompt:   regenPrompt,
			Resume:         resume,
			JobDescription: jd,
			NumQuestions:   n,
		})
		return err
	}
	err = runWithSpinner(ctx, "Regenerating questions", run)
	if len(state.Questions) > 0 {
		printQuestions(cmd.OutOrStdout(), state)
	}
	if err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nQuestions regenerated successfully!")
	return nil
}
