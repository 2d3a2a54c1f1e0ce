package cmd

import (
	"github.com/spf13/cobra"

	"todoscan/internal/cli/command"
	"todoscan/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "todoscan",
	Short: "Todoscan - inline TODO tracking for Python projects",
	Long: `Todoscan tracks TODO entries that live inside your source files as
structured comment blocks. It scans a project tree, lists and filters
entries, adds and updates them in place, and cleans out completed work.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return logging.Init(logging.ParseLevel(level))
	},
}

func init() {
	rootCmd.PersistentFlags().String("path", ".", "Project root to operate on")
	rootCmd.PersistentFlags().String("config", "", "Config file (defaults to the user config dir)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Compute changes without writing any files")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent scan workers (0 uses the configured value)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(command.InitCmd())
	rootCmd.AddCommand(command.ListCmd())
	rootCmd.AddCommand(command.AddCmd())
	rootCmd.AddCommand(command.DoneCmd())
	rootCmd.AddCommand(command.UpdateCmd())
	rootCmd.AddCommand(command.CleanCmd())
	rootCmd.AddCommand(command.ReportCmd())
	rootCmd.AddCommand(command.ExportCmd())
	rootCmd.AddCommand(command.TuiCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
