package command

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
	"todoscan/internal/models"
)

// ListCmd returns the list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Scan the project and list TODO entries",
		Long: `Scan every tracked source file and list the TODO entries found.

Examples:
  # All entries, grouped by file
  todoscan list

  # Open high-priority work for one person
  todoscan list --assignee=bob --priority=high

  # Everything past its due date, soonest first
  todoscan list --overdue --sort=due

  # JSON output for agents
  todoscan list --json
`,
		RunE: runList,
	}

	// Filter flags
	cmd.Flags().String("assignee", "", "Only entries assigned to this name")
	cmd.Flags().String("priority", "", "Only entries with this priority: low, medium, high")
	cmd.Flags().Bool("overdue", false, "Only entries past their due date")
	cmd.Flags().Bool("done", false, "Only completed entries")
	cmd.Flags().String("sort", "file", "Sort order: file, due, assignee, priority")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	assignee, _ := cmd.Flags().GetString("assignee")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	overdueOnly, _ := cmd.Flags().GetBool("overdue")
	doneOnly, _ := cmd.Flags().GetBool("done")
	sortKey, _ := cmd.Flags().GetString("sort")
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

	if !validSortKey(sortKey) {
		if fmtErr := formatter.ErrorWithSuggestion("INVALID_SORT",
			fmt.Sprintf("invalid sort key '%s'", sortKey),
			"Valid sort keys are: file, due, assignee, priority"); fmtErr != nil {
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

	result, err := cliInstance.Service.Scan(ctx)
	if err != nil {
		return exitForServiceError(formatter, err)
	}

	now := time.Now()
	entries := filterEntries(result.Entries, assignee, priority, priorityFlag != "", overdueOnly, doneOnly, now)
	sortEntries(entries, sortKey)

	ids := make([]string, 0, len(entries))
	entryMaps := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID())
		m := cli.EntryJSON(e)
		m["overdue"] = e.Overdue(now)
		entryMaps = append(entryMaps, m)
	}

	return formatter.Emit(cli.Result{
		QuietLines: ids,
		Fields: map[string]interface{}{
			"entries":       entryMaps,
			"files_scanned": result.FilesScanned,
			"files_skipped": result.FilesSkipped,
			"warnings":      cli.WarningsJSON(result.Warnings),
		},
		Human: func() {
			// Grouped by file when sorted by file
			if len(entries) == 0 {
				fmt.Println("No TODO entries found")
			} else if sortKey == "file" {
				printGrouped(entries, now)
			} else {
				for _, e := range entries {
					printEntry(e, now, true)
				}
			}
			fmt.Printf("\n%d entries across %d file(s)", len(entries), result.FilesScanned)
			if result.FilesSkipped > 0 {
				fmt.Printf(", %d skipped", result.FilesSkipped)
			}
			fmt.Println()
			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ "+w.String()))
			}
		},
	})
}

func validSortKey(key string) bool {
	switch key {
	case "file", "due", "assignee", "priority":
		return true
	}
	return false
}

func filterEntries(entries []*models.TodoEntry, assignee string, priority models.Priority, byPriority, overdueOnly, doneOnly bool, now time.Time) []*models.TodoEntry {
	out := make([]*models.TodoEntry, 0, len(entries))
	for _, e := range entries {
		if assignee != "" && !strings.EqualFold(e.Assignee, assignee) {
			continue
		}
		if byPriority && e.Priority != priority {
			continue
		}
		if overdueOnly && !e.Overdue(now) {
			continue
		}
		if doneOnly && !e.Done {
			continue
		}
		out = append(out, e)
	}
	return out
}

// sortEntries orders entries by the given key. Entries without a value for
// the key (no due date, no assignee) sort last; ties fall back to file order.
func sortEntries(entries []*models.TodoEntry, key string) {
	fileOrder := func(a, b *models.TodoEntry) bool {
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.StartLine < b.StartLine
	}

	switch key {
	case "due":
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			switch {
			case a.Due == nil && b.Due == nil:
				return fileOrder(a, b)
			case a.Due == nil:
				return false
			case b.Due == nil:
				return true
			case !a.Due.Equal(*b.Due):
				return a.Due.Before(*b.Due)
			}
			return fileOrder(a, b)
		})
	case "assignee":
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			switch {
			case a.Assignee == "" && b.Assignee == "":
				return fileOrder(a, b)
			case a.Assignee == "":
				return false
			case b.Assignee == "":
				return true
			case a.Assignee != b.Assignee:
				return strings.ToLower(a.Assignee) < strings.ToLower(b.Assignee)
			}
			return fileOrder(a, b)
		})
	case "priority":
		// Highest priority first
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return fileOrder(a, b)
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return fileOrder(entries[i], entries[j])
		})
	}
}

func printGrouped(entries []*models.TodoEntry, now time.Time) {
	lastFile := ""
	for _, e := range entries {
		if e.FilePath != lastFile {
			fmt.Println(styles.PathStyle.Render(e.FilePath))
			lastFile = e.FilePath
		}
		printEntry(e, now, false)
	}
}

func printEntry(e *models.TodoEntry, now time.Time, withFile bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-4d %s  %s", e.StartLine, styles.Priority(e.Priority), e.Task)
	if e.Assignee != "" {
		b.WriteString(styles.SubtleStyle.Render(" @" + e.Assignee))
	}
	if e.Due != nil {
		due := "due " + e.DueString()
		if e.Overdue(now) {
			b.WriteString(" " + styles.OverdueStyle.Render(due+" (overdue)"))
		} else {
			b.WriteString(" " + styles.SubtleStyle.Render(due))
		}
	}
	if e.Done {
		b.WriteString(" " + styles.DoneStyle.Render("✓ done"))
	}
	if withFile {
		b.WriteString(styles.SubtleStyle.Render("  " + e.FilePath))
	}
	fmt.Println(b.String())
}
