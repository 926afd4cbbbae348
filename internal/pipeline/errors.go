package pipeline

import "fmt"

// FormatError reports a malformed row: wrong column count at load time, or a
// date field with fewer than two '/'-delimited segments.
type FormatError struct {
	Line   int    // 1-based line in the source file, 0 when unknown
	Column string // offending column, empty for whole-row problems
	Reason string
}

func (e *FormatError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
