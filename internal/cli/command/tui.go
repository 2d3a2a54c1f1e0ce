package command

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/tui"
)

// TuiCmd returns the tui subcommand
func TuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse TODO entries in an interactive table",
		RunE:  runTui,
	}
}

func runTui(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatter := &cli.OutputFormatter{}

	cliInstance, err := cli.NewCLI(ctx, cmd)
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}

	result, err := cliInstance.Service.Scan(ctx)
	if err != nil {
		return exitForServiceError(formatter, err)
	}

	p := tea.NewProgram(tui.InitialModel(result), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("Error running TUI", "error", err)
		return err
	}

	return nil
}
