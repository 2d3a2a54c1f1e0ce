// Package report builds a markdown summary of a scan and renders it for
// the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"todoscan/internal/models"
)

// BuildMarkdown produces a markdown report for a scan result: a summary
// header followed by one section per file in path order.
func BuildMarkdown(result *models.ScanResult, now time.Time) string {
	var b strings.Builder

	open, done, overdue := 0, 0, 0
	for _, e := range result.Entries {
		if e.Done {
			done++
		} else {
			open++
		}
		if e.Overdue(now) {
			overdue++
		}
	}

	fmt.Fprintf(&b, "# TODO report for %s\n\n", result.Root)
	fmt.Fprintf(&b, "| Files scanned | Open | Done | Overdue |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n\n", result.FilesScanned, open, done, overdue)

	byFile := result.EntriesByFile()
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fmt.Fprintf(&b, "## %s\n\n", path)
		for _, e := range byFile[path] {
			fmt.Fprintf(&b, "- **%s** `%s` (line %d)", e.Priority, e.Task, e.StartLine)
			if e.Assignee != "" {
				fmt.Fprintf(&b, " — %s", e.Assignee)
			}
			if e.Due != nil {
				fmt.Fprintf(&b, ", due %s", e.DueString())
				if e.Overdue(now) {
					b.WriteString(" **(overdue)**")
				}
			}
			if e.Done {
				b.WriteString(" ✓")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

// RenderANSI renders markdown for terminal display.
func RenderANSI(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
