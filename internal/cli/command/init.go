package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
)

// InitCmd returns the init subcommand
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Insert a template TODO block into files that have none",
		Long: `Insert a template TODO block into every tracked source file that
does not already contain one. Files that already have a block are left
untouched, so running init twice is safe.

Examples:
  # Initialize the current directory
  todoscan init

  # Initialize another project
  todoscan --path=../service init

  # Preview without writing
  todoscan --dry-run init
`,
		RunE: runInit,
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (count only)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	result, err := cliInstance.Service.Init(ctx)
	if err != nil {
		return exitForServiceError(formatter, err)
	}

	return formatter.Emit(cli.Result{
		QuietLines: []string{fmt.Sprintf("%d", len(result.Initialized))},
		Fields: map[string]interface{}{
			"initialized": result.Initialized,
			"unchanged":   result.Unchanged,
			"skipped":     result.Skipped,
			"warnings":    cli.WarningsJSON(result.Warnings),
			"dry_run":     cliInstance.DryRun,
		},
		Human: func() {
			if cliInstance.DryRun {
				fmt.Println(styles.SubtleStyle.Render("dry run, no files written"))
			}
			for _, path := range result.Initialized {
				fmt.Printf("%s %s\n", styles.SuccessStyle.Render("✓"), path)
			}
			fmt.Printf("Initialized %d file(s), %d unchanged, %d skipped\n",
				len(result.Initialized), result.Unchanged, result.Skipped)
			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ "+w.String()))
			}
		},
	})
}
