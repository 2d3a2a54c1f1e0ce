package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
	todoservice "todoscan/internal/services/todo"
)

// CleanCmd returns the clean subcommand
func CleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove completed TODO blocks from the source",
		Long: `Remove TODO blocks whose entries are marked done. Everything
around the removed blocks is preserved byte for byte.

Examples:
  # Remove completed entries
  todoscan clean

  # Strip every block, e.g. before a release
  todoscan clean --all

  # Preview what would be removed
  todoscan --dry-run clean
`,
		RunE: runClean,
	}

	cmd.Flags().Bool("all", false, "Remove every block, not just completed ones")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (count only)")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	removeAll, _ := cmd.Flags().GetBool("all")
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

	result, err := cliInstance.Service.Clean(ctx, todoservice.CleanOptions{All: removeAll})
	if err != nil {
		return exitForServiceError(formatter, err)
	}

	emitErr := formatter.Emit(cli.Result{
		QuietLines: []string{fmt.Sprintf("%d", result.Removed)},
		Fields: map[string]interface{}{
			"success":       len(result.Failed) == 0,
			"removed":       result.Removed,
			"files_changed": result.FilesChanged,
			"failed":        cli.WarningsJSON(result.Failed),
			"warnings":      cli.WarningsJSON(result.Warnings),
			"dry_run":       cliInstance.DryRun,
		},
		Human: func() {
			if cliInstance.DryRun {
				fmt.Println(styles.SubtleStyle.Render("dry run, no files written"))
			}
			for _, path := range result.FilesChanged {
				fmt.Printf("%s %s\n", styles.SuccessStyle.Render("✓"), path)
			}
			fmt.Printf("Removed %d block(s) from %d file(s)\n", result.Removed, len(result.FilesChanged))
			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ "+w.String()))
			}
			for _, w := range result.Failed {
				fmt.Fprintln(os.Stderr, styles.OverdueStyle.Render("✗ "+w.String()))
			}
		},
	})
	if emitErr != nil {
		return emitErr
	}
	if len(result.Failed) > 0 {
		os.Exit(cli.ExitError)
	}

	return nil
}
