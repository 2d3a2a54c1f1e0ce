package command

import (
	"testing"
	"time"

	"todoscan/internal/models"
)

func listEntries() []*models.TodoEntry {
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*models.TodoEntry{
		{FilePath: "/proj/b.py", StartLine: 4, Task: "docs", Priority: models.PriorityLow, Assignee: "carol"},
		{FilePath: "/proj/a.py", StartLine: 3, Task: "cache", Priority: models.PriorityHigh, Due: &past, Assignee: "bob"},
		{FilePath: "/proj/a.py", StartLine: 12, Task: "tests", Priority: models.PriorityMedium, Due: &future, Done: true},
		{FilePath: "/proj/c.py", StartLine: 1, Task: "cleanup", Priority: models.PriorityMedium},
	}
}

// ============================================================================
// Filtering
// ============================================================================

func TestFilterEntries(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		assignee   string
		priority   models.Priority
		byPriority bool
		overdue    bool
		done       bool
		want       int
	}{
		{name: "no filters", want: 4},
		{name: "by assignee", assignee: "bob", want: 1},
		{name: "assignee case insensitive", assignee: "BOB", want: 1},
		{name: "by priority", priority: models.PriorityMedium, byPriority: true, want: 2},
		{name: "overdue only", overdue: true, want: 1},
		{name: "done only", done: true, want: 1},
		{name: "combined, no match", assignee: "bob", done: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterEntries(listEntries(), tt.assignee, tt.priority, tt.byPriority, tt.overdue, tt.done, now)
			if len(got) != tt.want {
				t.Errorf("filterEntries() = %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

// ============================================================================
// Sorting
// ============================================================================

func TestSortEntries_File(t *testing.T) {
	entries := listEntries()
	sortEntries(entries, "file")

	wantOrder := []string{"/proj/a.py:3", "/proj/a.py:12", "/proj/b.py:4", "/proj/c.py:1"}
	for i, id := range wantOrder {
		if entries[i].ID() != id {
			t.Errorf("position %d = %s, want %s", i, entries[i].ID(), id)
		}
	}
}

func TestSortEntries_Due(t *testing.T) {
	entries := listEntries()
	sortEntries(entries, "due")

	if entries[0].Task != "cache" || entries[1].Task != "tests" {
		t.Errorf("due sort wrong: %s, %s first", entries[0].Task, entries[1].Task)
	}
	// Entries without a due date sort last, in file order
	if entries[2].Due != nil || entries[3].Due != nil {
		t.Error("entries without due dates should sort last")
	}
	if entries[2].ID() != "/proj/b.py:4" {
		t.Errorf("tie-break should be file order, got %s", entries[2].ID())
	}
}

func TestSortEntries_Priority(t *testing.T) {
	entries := listEntries()
	sortEntries(entries, "priority")

	if entries[0].Priority != models.PriorityHigh {
		t.Errorf("highest priority should sort first, got %s", entries[0].Priority)
	}
	if entries[len(entries)-1].Priority != models.PriorityLow {
		t.Errorf("lowest priority should sort last, got %s", entries[len(entries)-1].Priority)
	}
	// Equal priorities keep file order
	if entries[1].ID() != "/proj/a.py:12" || entries[2].ID() != "/proj/c.py:1" {
		t.Errorf("medium entries out of order: %s, %s", entries[1].ID(), entries[2].ID())
	}
}

func TestSortEntries_Assignee(t *testing.T) {
	entries := listEntries()
	sortEntries(entries, "assignee")

	if entries[0].Assignee != "bob" || entries[1].Assignee != "carol" {
		t.Errorf("assignee sort wrong: %s, %s first", entries[0].Assignee, entries[1].Assignee)
	}
	if entries[2].Assignee != "" || entries[3].Assignee != "" {
		t.Error("unassigned entries should sort last")
	}
}

func TestValidSortKey(t *testing.T) {
	for _, key := range []string{"file", "due", "assignee", "priority"} {
		if !validSortKey(key) {
			t.Errorf("%s should be a valid sort key", key)
		}
	}
	for _, key := range []string{"", "line", "task", "FILE"} {
		if validSortKey(key) {
			t.Errorf("%s should be rejected", key)
		}
	}
}
