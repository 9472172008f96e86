package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/model"
	"github.com/amishk599/firstround/internal/session"
	"github.com/amishk599/firstround/internal/store"
	"github.com/amishk599/firstround/internal/tui"
)

var (
	showCandidateID int64
	showJobID       int64
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one stored question set",
	Long:  "Prints the questions stored for a candidate/job pair. Without ids, shows a picker over recent sets.",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showCandidateID, "candidate-id", 0, "stored candidate id")
	showCmd.Flags().Int64Var(&showJobID, "job-id", 0, "stored job description id")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)
	ctx := context.Background()

	sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	candidateID, jobID := showCandidateID, showJobID
	if candidateID == 0 || jobID == 0 {
		sets, err := sqlStore.ListQuestionSets(ctx, 50)
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored question sets.")
			return nil
		}
		choice, err := tui.RunHistoryPicker(sets)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		candidateID, jobID = sets[choice].CandidateID, sets[choice].JobID
	}

	set, err := sqlStore.QuestionSet(ctx, candidateID, jobID)
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("no question set for candidate %d and job %d", candidateID, jobID)
	}
	if err != nil {
		return err
	}

	if cand, err := sqlStore.Candidate(ctx, candidateID); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Candidate: %s\n", cand.Name)
	}
	printQuestions(cmd.OutOrStdout(), session.State{
		CandidateID: set.CandidateID,
		JobID:       set.JobID,
		Questions:   set.Questions,
	})
	return nil
}
