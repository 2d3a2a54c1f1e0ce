// Package tui implements a read-only terminal browser for scanned TODO
// entries.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"todoscan/internal/models"
)

// Filter selects which entries the table shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterOpen
	FilterDone
	FilterOverdue
)

func (f Filter) String() string {
	switch f {
	case FilterOpen:
		return "open"
	case FilterDone:
		return "done"
	case FilterOverdue:
		return "overdue"
	default:
		return "all"
	}
}

// next cycles to the following filter.
func (f Filter) next() Filter {
	return (f + 1) % 4
}

// Model represents the TUI state
type Model struct {
	entries []*models.TodoEntry
	filter  Filter
	table   table.Model
	now     time.Time
	width   int
	height  int
}

// InitialModel creates the TUI model from a completed scan.
func InitialModel(result *models.ScanResult) Model {
	m := Model{
		entries: result.Entries,
		filter:  FilterAll,
		now:     time.Now(),
	}

	columns := []table.Column{
		{Title: "File", Width: 36},
		{Title: "Line", Width: 5},
		{Title: "Pri", Width: 6},
		{Title: "Task", Width: 44},
		{Title: "Due", Width: 10},
		{Title: "Assignee", Width: 12},
		{Title: "Done", Width: 4},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	m.table = t
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// filtered returns the entries matching the active filter.
func (m Model) filtered() []*models.TodoEntry {
	out := make([]*models.TodoEntry, 0, len(m.entries))
	for _, e := range m.entries {
		switch m.filter {
		case FilterOpen:
			if e.Done {
				continue
			}
		case FilterDone:
			if !e.Done {
				continue
			}
		case FilterOverdue:
			if !e.Overdue(m.now) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// rows converts the filtered entries into table rows.
func (m Model) rows() []table.Row {
	entries := m.filtered()
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		done := ""
		if e.Done {
			done = "✓"
		}
		rows = append(rows, table.Row{
			e.FilePath,
			fmt.Sprintf("%d", e.StartLine),
			e.Priority.String(),
			e.Task,
			e.DueString(),
			e.Assignee,
			done,
		})
	}
	return rows
}

// selectedEntry returns the entry under the cursor, or nil.
func (m Model) selectedEntry() *models.TodoEntry {
	entries := m.filtered()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(entries) {
		return nil
	}
	return entries[cursor]
}
