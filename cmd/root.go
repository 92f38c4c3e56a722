package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
)

var rootCmd = &cobra.Command{
	Use:   "studymentor",
	Short: "AI study mentor for the 100x Engineers course",
	Long:  mentor.AppName + ": lessons, quizzes, chat and assignment feedback in your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Database path or URL (overrides STUDYMENTOR_DB_DSN)")
	pf.String("driver", "", "Database driver: sqlite or postgres (overrides STUDYMENTOR_DB_DRIVER)")
	pf.String("redis", "", "Redis URL for the progress slot (overrides STUDYMENTOR_REDIS_URL)")
	pf.String("catalog", "", "YAML file replacing the built-in topic catalog (overrides STUDYMENTOR_CATALOG)")
	pf.String("log-file", "", "Log file path (overrides STUDYMENTOR_LOG_FILE)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Bool("ephemeral", false, "Keep everything in memory for this run")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
