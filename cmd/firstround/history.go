package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored question sets",
	Long:  "Reads the database and prints a table of stored question sets, newest first.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum rows to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	sqlStore, err := store.NewSQLiteStore(cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	sets, err := sqlStore.ListQuestionSets(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-6s %-6s %-25s %-25s %-9s %s\n", "Cand", "Job", "Candidate", "Job Title", "Questions", "Updated")
	fmt.Fprintln(w, strings.Repeat("─", 94))
	for _, s := range sets {
		fmt.Fprintf(w, "%-6d %-6d %-25s %-25s %-9d %s\n",
			s.CandidateID, s.JobID, truncate(s.CandidateName, 25), truncate(s.JobTitle, 25),
			s.QuestionCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(w, "\nTotal: %d question sets\n", len(sets))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
