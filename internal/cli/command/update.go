package command

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
	todoservice "todoscan/internal/services/todo"
)

// UpdateCmd returns the update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update fields of a TODO entry",
		Long: `Update the entry identified by its file and start line. Only the
fields whose flags are given change; everything else is left alone.

Examples:
  # Reassign and bump priority
  todoscan update --file=src/cache.py --line=3 --assignee=alice --priority=high

  # Push the due date out
  todoscan update --file=src/cache.py --line=3 --due=2026-10-01

  # Remove the due date entirely
  todoscan update --file=src/cache.py --line=3 --clear-due
`,
		RunE: runUpdate,
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

	// Optional flags; only flags that were set are applied
	cmd.Flags().String("task", "", "New task description")
	cmd.Flags().String("priority", "", "New priority: low, medium, high")
	cmd.Flags().String("due", "", "New due date in YYYY-MM-DD form")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cmd.Flags().String("assignee", "", "New assignee (empty string clears it)")
	cmd.Flags().Bool("done", false, "Set the done state")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetInt("line")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	req := todoservice.UpdateRequest{File: file, StartLine: line}
	changed := false

	if cmd.Flags().Changed("task") {
		task, _ := cmd.Flags().GetString("task")
		req.Task = &task
		changed = true
	}
	if cmd.Flags().Changed("priority") {
		priorityFlag, _ := cmd.Flags().GetString("priority")
		p, err := cli.ParsePriorityFlag(priorityFlag)
		if err != nil {
			if fmtErr := formatter.ErrorWithSuggestion("INVALID_PRIORITY", err.Error(),
				"Valid priorities are: low, medium, high"); fmtErr != nil {
				slog.Error("Error formatting error message", "error", fmtErr)
			}
			os.Exit(cli.ExitValidation)
		}
		req.Priority = &p
		changed = true
	}
	if cmd.Flags().Changed("due") {
		dueFlag, _ := cmd.Flags().GetString("due")
		due, err := cli.ParseDueFlag(dueFlag)
		if err != nil {
			if fmtErr := formatter.ErrorWithSuggestion("INVALID_DUE", err.Error(),
				"Use the YYYY-MM-DD form, e.g. 2026-09-15"); fmtErr != nil {
				slog.Error("Error formatting error message", "error", fmtErr)
			}
			os.Exit(cli.ExitValidation)
		}
		req.Due = due
		changed = true
	}
	if cmd.Flags().Changed("clear-due") {
		req.ClearDue = true
		changed = true
	}
	if cmd.Flags().Changed("assignee") {
		assignee, _ := cmd.Flags().GetString("assignee")
		req.Assignee = &assignee
		changed = true
	}
	if cmd.Flags().Changed("done") {
		done, _ := cmd.Flags().GetBool("done")
		req.Done = &done
		changed = true
	}

	if !changed {
		if fmtErr := formatter.ErrorWithSuggestion("NOTHING_TO_UPDATE",
			"no fields given",
			"Pass at least one of --task, --priority, --due, --clear-due, --assignee, --done"); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		os.Exit(cli.ExitUsage)
	}

	cliInstance, err := cli.NewCLI(ctx, cmd)
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}

	entry, err := cliInstance.Service.Update(ctx, req)
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
			fmt.Printf("%s Updated %s (line %d)\n",
				styles.SuccessStyle.Render("✓"), entry.FilePath, entry.StartLine)
			fmt.Printf("  Task: %s\n", entry.Task)
			fmt.Printf("  Priority: %s\n", styles.Priority(entry.Priority))
			if entry.Due != nil {
				fmt.Printf("  Due: %s\n", entry.DueString())
			}
			if entry.Assignee != "" {
				fmt.Printf("  Assignee: %s\n", entry.Assignee)
			}
			if entry.Done {
				fmt.Printf("  Status: %s\n", styles.DoneStyle.Render("done"))
			}
			if cliInstance.DryRun {
				fmt.Println(styles.SubtleStyle.Render("dry run, no files written"))
			}
		},
	})
}
