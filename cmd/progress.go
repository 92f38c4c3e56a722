package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/report"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show mastery, per-topic scores and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		ov := progress.BuildOverview(e.catalog, e.progress.Load(cmd.Context()))

		fmt.Printf("Overall mastery:  %d%%\n", ov.OverallMastery)
		fmt.Printf("Topics completed: %d/%d\n\n", ov.Completed, ov.TotalTopics)

		fmt.Printf("%-10s  %6s  %s\n", "Topic", "Score", "Band")
		fmt.Println(strings.Repeat("─", 32))
		for _, row := range ov.Topics {
			score, band := "-", "-"
			if row.Attempted {
				score = fmt.Sprintf("%d%%", row.BestScore)
				band = row.Band.String()
			}
			fmt.Printf("%-10s  %6s  %s\n", row.Label, score, band)
		}

		if len(ov.Recent) > 0 {
			fmt.Println("\nRecent activity")
			fmt.Println(strings.Repeat("─", 32))
			for _, a := range ov.Recent {
				fmt.Printf("%s  %s\n", a.Time().Local().Format("2006-01-02 15:04"), a.Details)
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export progress and activity to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		if err := report.Write(f, e.catalog, e.progress.Load(cmd.Context()), time.Now()); err != nil {
			f.Close()
			return fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", args[0], err)
		}
		fmt.Println("Wrote", args[0])
		return nil
	},
}
