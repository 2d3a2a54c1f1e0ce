package cli

import (
	"fmt"
	"strings"
	"time"

	"todoscan/internal/models"
)

// ParsePriorityFlag maps a priority flag value to its Priority
func ParsePriorityFlag(priority string) (models.Priority, error) {
	p, err := models.ParsePriority(priority)
	if err != nil {
		return 0, fmt.Errorf("invalid priority '%s' (must be: low, medium, high)", priority)
	}
	return p, nil
}

// ParseDueFlag parses a due date flag value in YYYY-MM-DD form.
// An empty value returns nil.
func ParseDueFlag(due string) (*time.Time, error) {
	if strings.TrimSpace(due) == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DueLayout, due)
	if err != nil {
		return nil, fmt.Errorf("invalid due date '%s' (must be YYYY-MM-DD)", due)
	}
	return &t, nil
}

// EntryJSON converts an entry to the map shape used by --json output.
func EntryJSON(e *models.TodoEntry) map[string]interface{} {
	out := map[string]interface{}{
		"id":         e.ID(),
		"file":       e.FilePath,
		"start_line": e.StartLine,
		"end_line":   e.EndLine,
		"task":       e.Task,
		"priority":   strings.ToLower(e.Priority.String()),
		"done":       e.Done,
	}
	if e.Due != nil {
		out["due"] = e.DueString()
	}
	if e.Assignee != "" {
		out["assignee"] = e.Assignee
	}
	return out
}

// WarningsJSON converts scan warnings for --json output.
func WarningsJSON(warnings []models.Warning) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, map[string]interface{}{
			"file":    w.Path,
			"line":    w.Line,
			"message": w.Message,
		})
	}
	return out
}
