package block

import (
	"regexp"
	"strings"
)

var codingRe = regexp.MustCompile(`^#.*coding[:=]\s*[-\w.]+`)

// InsertionIndex returns the 0-based line index where init should place a
// new TODO block: after a shebang, a PEP 263 coding line, and the module
// docstring when present, otherwise at the top of the file.
func InsertionIndex(lines []string) int {
	i := 0
	if i < len(lines) && strings.HasPrefix(lines[i], "#!") {
		i++
	}
	if i < len(lines) && codingRe.MatchString(lines[i]) {
		i++
	}

	// The docstring is the first statement, so look past blank lines and
	// comments only.
	j := i
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, commentChar) {
			j++
			continue
		}
		if end, ok := docstringEnd(lines, j); ok {
			return end + 1
		}
		break
	}
	return i
}

// docstringEnd returns the 0-based index of the line closing a docstring
// that opens at line start, and whether one opens there at all.
func docstringEnd(lines []string, start int) (int, bool) {
	trimmed := strings.TrimSpace(lines[start])

	var quote string
	switch {
	case strings.HasPrefix(trimmed, `"""`):
		quote = `"""`
	case strings.HasPrefix(trimmed, "'''"):
		quote = "'''"
	default:
		return 0, false
	}

	// Single-line docstring: a closing delimiter after the opening one.
	rest := trimmed[len(quote):]
	if strings.Contains(rest, quote) {
		return start, true
	}

	for j := start + 1; j < len(lines); j++ {
		if strings.Contains(lines[j], quote) {
			return j, true
		}
	}
	// Unterminated docstring; treat the whole file as the docstring and
	// fall back to inserting at the top.
	return 0, false
}

// Insert returns lines with blockLines spliced in at index at.
func Insert(lines []string, at int, blockLines []string) []string {
	if at < 0 {
		at = 0
	}
	if at > len(lines) {
		at = len(lines)
	}
	out := make([]string, 0, len(lines)+len(blockLines))
	out = append(out, lines[:at]...)
	out = append(out, blockLines...)
	out = append(out, lines[at:]...)
	return out
}

// Remove returns lines with the 1-based inclusive range [startLine, endLine]
// removed.
func Remove(lines []string, startLine, endLine int) []string {
	if startLine < 1 || endLine < startLine || endLine > len(lines) {
		return lines
	}
	out := make([]string, 0, len(lines)-(endLine-startLine+1))
	out = append(out, lines[:startLine-1]...)
	out = append(out, lines[endLine:]...)
	return out
}

// Replace returns lines with the 1-based inclusive range [startLine, endLine]
// replaced by blockLines.
func Replace(lines []string, startLine, endLine int, blockLines []string) []string {
	if startLine < 1 || endLine < startLine || endLine > len(lines) {
		return lines
	}
	out := make([]string, 0, len(lines)-(endLine-startLine+1)+len(blockLines))
	out = append(out, lines[:startLine-1]...)
	out = append(out, blockLines...)
	out = append(out, lines[endLine:]...)
	return out
}
