// Package excerpt cuts test case snippets out of generated test files.
package excerpt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange is returned when the start line is past the end of the file.
	ErrOutOfRange = errors.New("line numbers are out of range")
	// ErrInvalidRange is returned when the start line comes after the end line.
	ErrInvalidRange = errors.New("start line cannot be greater than end line")
)

// Extract returns the lines of text covered by startLine and endLine.
//
// The start index is max(0, startLine) and the end index is
// min(last line, endLine-1); the result runs from the start index up to and
// including the line after the end index. Existing reports rely on that extra
// trailing line, keep it. A missing or zero bound yields an empty excerpt.
func Extract(text string, startLine, endLine *int) (string, error) {
	if startLine == nil || endLine == nil || *startLine == 0 || *endLine == 0 {
		return "", nil
	}
	lines := strings.Split(text, "\n")

	start := max(0, *startLine)
	end := min(len(lines)-1, *endLine-1)

	if start >= len(lines) {
		return "", fmt.Errorf("start %d, %d lines: %w", *startLine, len(lines), ErrOutOfRange)
	}
	if start > end {
		return "", fmt.Errorf("start %d, end %d: %w", *startLine, *endLine, ErrInvalidRange)
	}

	return strings.Join(lines[start:min(end+2, len(lines))], "\n"), nil
}

// Language returns the highlighting language for a test file path. The
// extension is whatever follows the last dot, matched case-sensitively; a
// path without a dot is matched as a whole.
func Language(path string) string {
	ext := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i+1:]
	}
	switch ext {
	case "java":
		return "java"
	case "js":
		return "javascript"
	case "py":
		return "python"
	case "ts":
		return "typescript"
	case "kt":
		return "kotlin"
	default:
		return "plaintext"
	}
}
