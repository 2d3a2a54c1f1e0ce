package command

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
)

// DoneCmd returns the done subcommand
func DoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done",
		Short: "Mark a TODO entry as done",
		Long: `Mark the entry identified by its file and start line as done.
The block stays in the file until 'todoscan clean' removes it.

Examples:
  todoscan done --file=src/cache.py --line=3
  todoscan done --file=src/cache.py --line=3 --json
`,
		RunE: runDone,
	}

	// Required flags
	cmd.Flags().String("file", "", "File containing the entry, relative to the project root (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cmd.Flags().Int("line", 0, "Start line of the entry's block (required)")
	if err := cmd.MarkFlagRequired("line"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runDone(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetInt("line")
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

	entry, err := cliInstance.Service.Done(ctx, file, line)
	if err != nil {
		return exitForServiceError(formatter, err)
	}

	return formatter.Emit(cli.Result{
		QuietLines: []string{entry.ID()},
		Fields: map[string]interface{}{
			"entry":   cli.EntryJSON(entry),
			"dry_run": cliInstance.DryRun,
		},
		Human: func() {
			fmt.Printf("%s Marked done: %s (line %d)\n",
				styles.DoneStyle.Render("✓"), entry.Task, entry.StartLine)
			if cliInstance.DryRun {
				fmt.Println(styles.SubtleStyle.Render("dry run, no files written"))
			}
		},
	})
}
