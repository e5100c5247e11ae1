package reporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	emptyMarker          = "(empty)"
	noTrailingNewline    = "(no trailing newline)"
	omittedLinesTemplate = "... (%d lines omitted) ..."
)

// prettyContent renders file content for the console. When it has more than
// limit lines only the first head and last tail lines are kept. A negative
// limit keeps everything.
func prettyContent(content []byte, limit, head, tail int) string {
	if len(content) == 0 {
		return emptyMarker
	}

	text := string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	if limit >= 0 && len(lines) > limit {
		omitted := len(lines) - head - tail
		kept := make([]string, 0, head+tail+1)
		kept = append(kept, lines[:head]...)
		kept = append(kept, fmt.Sprintf(omittedLinesTemplate, omitted))
		kept = append(kept, lines[len(lines)-tail:]...)
		lines = kept
	}

	out := strings.Join(lines, "\n")
	if !trailingNewline {
		out += "\n" + noTrailingNewline
	}
	return out
}

// unifiedDiff diffs expected against actual. A negative limit keeps every line
// of the diff.
func unifiedDiff(actual, expected []byte, context, limit int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "(no line differences, outputs differ only in whitespace)", nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if limit >= 0 && len(lines) > limit {
		more := len(lines) - limit
		lines = append(lines[:limit], fmt.Sprintf("... (%d more lines)", more))
	}
	return strings.Join(lines, "\n"), nil
}
