// Package block parses, renders, and places TODO comment blocks inside
// source file text. A block is a contiguous run of line comments opened and
// closed by marker comments, holding one task as key: value field lines:
//
//	# <todo>
//	# task: tighten the retry loop
//	# priority: HIGH
//	# due: 2026-04-01
//	# assignee: ana
//	# done: false
//	# </todo>
//
// The package never touches the filesystem; callers hand it file text and
// write the result back themselves.
package block

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"todoscan/internal/models"
)

const commentChar = "#"

// Field keys recognized inside a block.
const (
	fieldTask     = "task"
	fieldPriority = "priority"
	fieldDue      = "due"
	fieldAssignee = "assignee"
	fieldDone     = "done"
)

// Codec parses and renders TODO blocks for one marker convention.
type Codec struct {
	begin           string
	end             string
	defaultPriority models.Priority
}

// NewCodec returns a codec for the given begin/end marker text (the text
// after the comment character, e.g. "<todo>").
func NewCodec(begin, end string, defaultPriority models.Priority) *Codec {
	if !defaultPriority.Valid() {
		defaultPriority = models.DefaultPriority
	}
	return &Codec{begin: begin, end: end, defaultPriority: defaultPriority}
}

// SplitLines splits file text into lines. JoinLines(SplitLines(s)) == s for
// any s, which is what keeps rewrites byte-exact outside edited blocks.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Parse extracts all TODO blocks from file text. Line numbers in the
// returned entries are 1-based. Malformed field lines produce warnings and
// are skipped; an opening marker without a matching end, or a non-comment
// line inside a block, yields a ParseError and no entries.
func (c *Codec) Parse(path, text string) ([]*models.TodoEntry, []models.Warning, error) {
	lines := SplitLines(text)

	var entries []*models.TodoEntry
	var warnings []models.Warning

	for i := 0; i < len(lines); i++ {
		indent, content, isComment := splitComment(lines[i])
		if !isComment || content != c.begin {
			continue
		}

		entry := &models.TodoEntry{
			FilePath:  path,
			StartLine: i + 1,
			Indent:    indent,
			Priority:  c.defaultPriority,
		}

		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			_, content, isComment := splitComment(lines[j])
			if !isComment {
				return nil, nil, &models.ParseError{
					Path: path,
					Line: j + 1,
					Err:  fmt.Errorf("TODO block opened at line %d interrupted by non-comment line", i+1),
				}
			}
			if content == c.end {
				closed = true
				break
			}
			if content == c.begin {
				return nil, nil, &models.ParseError{
					Path: path,
					Line: j + 1,
					Err:  fmt.Errorf("TODO block opened at line %d contains a nested begin marker", i+1),
				}
			}
			if w := c.applyField(entry, content, path, j+1); w != nil {
				warnings = append(warnings, *w)
			}
		}

		if !closed {
			return nil, nil, &models.ParseError{
				Path: path,
				Line: i + 1,
				Err:  fmt.Errorf("TODO block has no matching end marker %q", c.end),
			}
		}

		entry.EndLine = j + 1
		if entry.Task == "" {
			warnings = append(warnings, models.Warning{
				Path:    path,
				Line:    i + 1,
				Message: "TODO block has no task field",
			})
		}
		entries = append(entries, entry)
		i = j
	}

	return entries, warnings, nil
}

// applyField parses one "key: value" field line into the entry. A non-nil
// return is a warning; the field is then left at its default.
func (c *Codec) applyField(entry *models.TodoEntry, content, path string, line int) *models.Warning {
	key, value, ok := strings.Cut(content, ":")
	if !ok {
		return &models.Warning{Path: path, Line: line, Message: fmt.Sprintf("malformed field line %q (expected key: value)", content)}
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case fieldTask:
		entry.Task = value
	case fieldPriority:
		p, err := models.ParsePriority(value)
		if err != nil {
			return &models.Warning{Path: path, Line: line, Message: err.Error()}
		}
		entry.Priority = p
	case fieldDue:
		due, err := time.Parse(models.DueLayout, value)
		if err != nil {
			return &models.Warning{Path: path, Line: line, Message: fmt.Sprintf("invalid due date %q (expected YYYY-MM-DD)", value)}
		}
		entry.Due = &due
	case fieldAssignee:
		entry.Assignee = value
	case fieldDone:
		done, err := strconv.ParseBool(value)
		if err != nil {
			return &models.Warning{Path: path, Line: line, Message: fmt.Sprintf("invalid done value %q (expected true or false)", value)}
		}
		entry.Done = done
	default:
		return &models.Warning{Path: path, Line: line, Message: fmt.Sprintf("unknown field %q", key)}
	}
	return nil
}

// Render produces the canonical block lines for an entry, honoring its
// indentation. Optional fields are omitted when unset.
func (c *Codec) Render(e *models.TodoEntry) []string {
	prefix := e.Indent + commentChar + " "
	lines := []string{
		prefix + c.begin,
		prefix + fieldTask + ": " + e.Task,
		prefix + fieldPriority + ": " + e.Priority.String(),
	}
	if e.Due != nil {
		lines = append(lines, prefix+fieldDue+": "+e.DueString())
	}
	if e.Assignee != "" {
		lines = append(lines, prefix+fieldAssignee+": "+e.Assignee)
	}
	lines = append(lines,
		prefix+fieldDone+": "+strconv.FormatBool(e.Done),
		prefix+c.end,
	)
	return lines
}

// Template returns the entry rendered into files by init: default priority,
// no assignee, no due date.
func (c *Codec) Template(path string) *models.TodoEntry {
	return &models.TodoEntry{
		FilePath: path,
		Task:     "describe the work to be done",
		Priority: c.defaultPriority,
	}
}

// splitComment reports whether a line is a line comment and returns its
// indentation and trimmed comment text.
func splitComment(line string) (indent, content string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, commentChar) {
		return "", "", false
	}
	indent = line[:len(line)-len(trimmed)]
	content = strings.TrimSpace(strings.TrimPrefix(trimmed, commentChar))
	return indent, content, true
}
