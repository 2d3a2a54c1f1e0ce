package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/report"
)

// ReportCmd returns the report subcommand
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown summary of all TODO entries",
		Long: `Scan the project and render a markdown report: summary counts
followed by one section per file.

Examples:
  # Styled report in the terminal
  todoscan report

  # Raw markdown, e.g. for a pull request description
  todoscan report --plain > TODO.md
`,
		RunE: runReport,
	}

	cmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (entry count only)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	plain, _ := cmd.Flags().GetBool("plain")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

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

	if quietMode {
		return formatter.Emit(cli.Result{
			QuietLines: []string{fmt.Sprintf("%d", len(result.Entries))},
		})
	}

	markdown := report.BuildMarkdown(result, time.Now())

	if jsonOutput {
		return formatter.Emit(cli.Result{
			Fields: map[string]interface{}{
				"markdown":      markdown,
				"entries":       len(result.Entries),
				"files_scanned": result.FilesScanned,
			},
		})
	}

	if plain {
		fmt.Print(markdown)
		return nil
	}

	rendered, err := report.RenderANSI(markdown)
	if err != nil {
		if fmtErr := formatter.Error("RENDER_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}
	fmt.Print(rendered)

	return nil
}
