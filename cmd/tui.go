package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, envOptions{provider: true, offlineOK: true})
	if err != nil {
		return err
	}
	defer e.Close()

	if err := app.Run(app.Options{
		Catalog:  e.catalog,
		Progress: e.progress,
		Lessons:  e.lessons(),
		Quizzes:  e.quizzes(),
		Reviewer: e.reviewer(),
		Provider: e.provider,
		Logger:   e.logger,
	}); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
