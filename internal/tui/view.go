package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	entries := m.filtered()
	title := fmt.Sprintf(" TODOs — %s (%d of %d) ", m.filter, len(entries), len(m.entries))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if e := m.selectedEntry(); e != nil {
		detail := fmt.Sprintf("%s:%d  %s", e.FilePath, e.StartLine, e.Task)
		if e.Overdue(m.now) {
			detail += "  " + overdueStyle.Render("overdue")
		}
		b.WriteString(detailStyle.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move • f filter • g/G top/bottom • q quit"))
	b.WriteString("\n")
	return b.String()
}
