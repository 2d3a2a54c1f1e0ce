package command

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"todoscan/internal/cli"
	"todoscan/internal/cli/styles"
	"todoscan/internal/database"
)

// ExportCmd returns the export subcommand
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot the current scan into a SQLite database",
		Long: `Scan the project and write the result into a SQLite database as
one snapshot. The source files stay the single source of truth; the
database is an artifact for querying and diffing scans over time.

Examples:
  # Snapshot into the default database
  todoscan export

  # Snapshot into a named file
  todoscan export --output=reports/todos.db
`,
		RunE: runExport,
	}

	cmd.Flags().String("output", "todoscan.db", "Database file to write the snapshot into")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (scan ID only)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	output, _ := cmd.Flags().GetString("output")
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

	db, err := database.Open(ctx, output)
	if err != nil {
		if fmtErr := formatter.Error("DATABASE_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing export database", "error", err)
		}
	}()

	repo := database.NewExportRepository(db)
	scanID, err := repo.SaveScan(ctx, result)
	if err != nil {
		if fmtErr := formatter.Error("EXPORT_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return err
	}

	return formatter.Emit(cli.Result{
		QuietLines: []string{fmt.Sprintf("%d", scanID)},
		Fields: map[string]interface{}{
			"scan_id":       scanID,
			"database":      output,
			"entries":       len(result.Entries),
			"files_scanned": result.FilesScanned,
		},
		Human: func() {
			fmt.Printf("%s Exported scan #%d to %s\n",
				styles.SuccessStyle.Render("✓"), scanID, output)
			fmt.Printf("  Entries: %d\n", len(result.Entries))
			fmt.Printf("  Files scanned: %d\n", result.FilesScanned)
		},
	})
}
