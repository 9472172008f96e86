package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/firstround/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive question generator (default)",
	Long:  "Shows a form for candidate name, résumé, job description, question count and custom prompt, with Generate and Regenerate actions.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig(setupLogger(debug))

	// The form runs in the alt screen and any log output corrupts the display.
	silentLogger := discardLogger()
	orch, cleanup, err := buildOrchestrator(context.Background(), cfg, silentLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	return tui.Run(orch, cfg.DefaultNumQuestions)
}
