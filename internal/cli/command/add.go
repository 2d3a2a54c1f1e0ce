package command

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
	"todoscan/internal/models"
	todoservice "todoscan/internal/services/todo"
)

// AddCmd returns the add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a TODO entry to a file",
		Long: `Add a new TODO block to a file. The block goes after the file's
last existing block, or at the top of the file when there is none.

Examples:
  # Simple entry
  todoscan add --file=src/cache.py --task="Fix eviction race"

  # Full example with all options
  todoscan add \
    --file=src/cache.py \
    --task="Fix eviction race" \
    --priority=high \
    --due=2026-09-15 \
    --assignee=bob

  # Quiet mode for bash capture
  ENTRY=$(todoscan add --file=src/cache.py --task="Fix it" --quiet)
`,
		RunE: runAdd,
	}

	// Required flags
	cmd.Flags().String("file", "", "Target file, relative to the project root (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cmd.Flags().String("task", "", "Task description (required)")
	if err := cmd.MarkFlagRequired("task"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags
	cmd.Flags().String("priority", "", "Priority: low, medium, high (defaults to configured default)")
	cmd.Flags().String("due", "", "Due date in YYYY-MM-DD form")
	cmd.Flags().String("assignee", "", "Assignee name")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	task, _ := cmd.Flags().GetString("task")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	dueFlag, _ := cmd.Flags().GetString("due")
	assignee, _ := cmd.Flags().GetString("assignee")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	var priority models.Priority
	if priorityFlag != "" {
		p, err := cli.ParsePriorityFlag(priorityFlag)
		if err != nil {
			if fmtErr := formatter.ErrorWithSuggestion("INVALID_PRIORITY", err.Error(),
				"Valid priorities are: low, medium, high"); fmtErr != nil {
				slog.Error("Error formatting error message", "error", fmtErr)
			}
			os.Exit(cli.ExitValidation)
		}
		priority = p
	}

	due, err := cli.ParseDueFlag(dueFlag)
	if err != nil {
		if fmtErr := formatter.ErrorWithSuggestion("INVALID_DUE", err.Error(),
			"Use the YYYY-MM-DD form, e.g. 2026-09-15"); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		os.Exit(cli.ExitValidation)
	}

	cliInstance, err := cli.NewCLI(ctx, cmd)
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}

	entry, err := cliInstance.Service.Add(ctx, todoservice.AddRequest{
		File:     file,
		Task:     task,
		Priority: priority,
		Due:      due,
		Assignee: assignee,
	})
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
			fmt.Printf("%s TODO added to %s at line %d\n",
				styles.SuccessStyle.Render("✓"), entry.FilePath, entry.StartLine)
			fmt.Printf("  Task: %s\n", entry.Task)
			fmt.Printf("  Priority: %s\n", styles.Priority(entry.Priority))
			if entry.Due != nil {
				fmt.Printf("  Due: %s\n", entry.DueString())
			}
			if entry.Assignee != "" {
				fmt.Printf("  Assignee: %s\n", entry.Assignee)
			}
			if cliInstance.DryRun {
				fmt.Println(styles.SubtleStyle.Render("dry run, no files written"))
			}
		},
	})
}
