package models

import (
	"fmt"
	"time"
)

// DueLayout is the wire format for due dates inside TODO blocks.
const DueLayout = "2006-01-02"

// TodoEntry represents a single TODO block found in a source file.
// Entries are uniquely identified by (FilePath, StartLine).
type TodoEntry struct {
	FilePath  string
	StartLine int // 1-based line of the opening marker
	EndLine   int // 1-based line of the closing marker
	Indent    string
	Task      string
	Priority  Priority
	Due       *time.Time
	Assignee  string
	Done      bool
}

// ID returns the stable identity string "path:startline" used in output
// and logs.
func (e *TodoEntry) ID() string {
	return fmt.Sprintf("%s:%d", e.FilePath, e.StartLine)
}

// Overdue reports whether the entry has a due date strictly before the
// start of the given day and is not done.
func (e *TodoEntry) Overdue(now time.Time) bool {
	if e.Done || e.Due == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return e.Due.Before(today)
}

// DueString returns the formatted due date, or "" when unset.
func (e *TodoEntry) DueString() string {
	if e.Due == nil {
		return ""
	}
	return e.Due.Format(DueLayout)
}

// Warning is a non-fatal problem encountered while scanning or parsing.
// Warnings are reported on stderr and logged; they never abort a run.
type Warning struct {
	Path    string
	Line    int // 0 when the warning is not tied to a specific line
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.Path, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// ScanResult is the outcome of scanning a project root. It is rebuilt on
// every invocation; the source files are the only persistent store.
type ScanResult struct {
	Root         string
	Entries      []*TodoEntry
	FilesScanned int
	FilesSkipped int
	Warnings     []Warning
}

// EntriesByFile groups entries by file path, preserving in-file order.
func (r *ScanResult) EntriesByFile() map[string][]*TodoEntry {
	byFile := make(map[string][]*TodoEntry)
	for _, e := range r.Entries {
		byFile[e.FilePath] = append(byFile[e.FilePath], e)
	}
	return byFile
}

// FindEntry returns the entry identified by (path, startLine), or nil.
func (r *ScanResult) FindEntry(path string, startLine int) *TodoEntry {
	for _, e := range r.Entries {
		if e.FilePath == path && e.StartLine == startLine {
			return e
		}
	}
	return nil
}
