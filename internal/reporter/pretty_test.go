package reporter

import (
	"fmt"
	"strings"
	"testing"
)

func TestPrettyContent(t *testing.T) {
	if got := prettyContent(nil, 40, 20, 10); got != emptyMarker {
		t.Fatalf("expected empty marker, got %q", got)
	}
	if got := prettyContent([]byte("a\r\nb\n"), 40, 20, 10); got != "a\nb" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := prettyContent([]byte("a"), 40, 20, 10); got != "a\n"+noTrailingNewline {
		t.Fatalf("expected missing newline marker, got %q", got)
	}
}

func TestPrettyContent_Truncates(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}

	got := prettyContent([]byte(sb.String()), 40, 20, 10)
	lines := strings.Split(got, "\n")
	if len(lines) != 31 {
		t.Fatalf("expected 31 lines, got %d", len(lines))
	}
	if lines[0] != "line 0" || lines[19] != "line 19" || lines[30] != "line 99" {
		t.Fatalf("unexpected head or tail: %q", got)
	}
	if lines[20] != fmt.Sprintf(omittedLinesTemplate, 70) {
		t.Fatalf("unexpected omission marker %q", lines[20])
	}

	all := prettyContent([]byte(sb.String()), -1, 0, 0)
	if strings.Count(all, "\n") != 99 {
		t.Fatalf("expected every line to be kept")
	}
}

func TestUnifiedDiff_Limit(t *testing.T) {
	var actual, expected strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&actual, "%d\n", i)
		fmt.Fprintf(&expected, "%d\n", i+1000)
	}

	limited, err := unifiedDiff([]byte(actual.String()), []byte(expected.String()), 3, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(limited, "\n")
	if len(lines) != 41 {
		t.Fatalf("expected 40 lines and a marker, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[40], "... (") {
		t.Fatalf("expected truncation marker, got %q", lines[40])
	}

	full, err := unifiedDiff([]byte(actual.String()), []byte(expected.String()), 3, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(full, "more lines") {
		t.Fatalf("expected full diff")
	}
}

func TestUnifiedDiff_Identical(t *testing.T) {
	got, err := unifiedDiff([]byte("1\n"), []byte("1\n"), 3, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "no line differences") {
		t.Fatalf("unexpected diff %q", got)
	}
}
