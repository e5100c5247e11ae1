package verifier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	. "github.com/mini-maxit/tester/internal/stages/verifier"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/pkg/solution"
	"github.com/mini-maxit/tester/tests"
)

func newCase(t *testing.T, dir, input, expected string) solution.TestCase {
	t.Helper()
	return solution.TestCase{
		Name:               "1",
		InputPath:          tests.WriteFile(t, dir, "1.in", input),
		ExpectedOutputPath: tests.WriteFile(t, dir, "1.ans", expected),
	}
}

func mustVerifier(t *testing.T, opts Options) Verifier {
	t.Helper()
	v, err := NewVerifier(opts)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func TestCompareOutput_ExactMatch(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "hello\nworld\n")
	v := mustVerifier(t, Options{CompareMode: ExactMatch})

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("hello\nworld\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected match, got %v", cmp.Outcome)
	}
	if string(cmp.Expected) != "hello\nworld\n" {
		t.Errorf("expected file content to be returned, got %q", cmp.Expected)
	}
}

func TestCompareOutput_TrailingWhitespaceIgnored(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "42")
	v := mustVerifier(t, Options{CompareMode: ExactMatch})

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("42 \n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected trailing whitespace to be ignored, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_CRLFInsensitive(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "1\n2\n")
	v := mustVerifier(t, Options{CompareMode: CRLFInsensitiveExactMatch})

	unix, err := v.CompareOutput(context.Background(), tc, []byte("1\n2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	windows, err := v.CompareOutput(context.Background(), tc, []byte("1\r\n2\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unix.Outcome != windows.Outcome || unix.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected both line endings to match, got %v and %v", unix.Outcome, windows.Outcome)
	}
}

func TestCompareOutput_HintOnWhitespaceDifference(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "1 2 3\n")
	exact := mustVerifier(t, Options{CompareMode: CRLFInsensitiveExactMatch})

	cmp, err := exact.CompareOutput(context.Background(), tc, []byte("1  2 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMismatch {
		t.Fatalf("expected mismatch in exact mode, got %v", cmp.Outcome)
	}
	if cmp.Hint != constants.TestCaseMessageIgnoreSpacesHint {
		t.Errorf("expected ignore-spaces hint, got %q", cmp.Hint)
	}

	spaces := mustVerifier(t, Options{CompareMode: IgnoreSpaces})
	cmp, err = spaces.CompareOutput(context.Background(), tc, []byte("1  2 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected match when ignoring spaces, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_NoHintOnRealDifference(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "1 2 3\n")
	v := mustVerifier(t, Options{CompareMode: ExactMatch})

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("3 2 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMismatch {
		t.Fatalf("expected mismatch, got %v", cmp.Outcome)
	}
	if cmp.Hint != "" {
		t.Errorf("expected no hint, got %q", cmp.Hint)
	}
}

func TestCompareOutput_FloatTolerance(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "1.0\n")

	loose := mustVerifier(t, Options{CompareMode: CRLFInsensitiveExactMatch, FloatTolerance: ptr(1e-5)})
	cmp, err := loose.CompareOutput(context.Background(), tc, []byte("1.00001\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Errorf("expected match with tolerance 1e-5, got %v", cmp.Outcome)
	}

	strict := mustVerifier(t, Options{CompareMode: CRLFInsensitiveExactMatch, FloatTolerance: ptr(1e-7)})
	cmp, err = strict.CompareOutput(context.Background(), tc, []byte("1.00001\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMismatch {
		t.Errorf("expected mismatch with tolerance 1e-7, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_EmptyExpectedFile(t *testing.T) {
	tc := newCase(t, t.TempDir(), "", "")
	v := mustVerifier(t, Options{CompareMode: ExactMatch})

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Errorf("expected empty output to match empty file, got %v", cmp.Outcome)
	}

	cmp, err = v.CompareOutput(context.Background(), tc, []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMismatch {
		t.Errorf("expected non-empty output to mismatch empty file, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_NoExpectedOutput(t *testing.T) {
	dir := t.TempDir()
	tc := solution.TestCase{Name: "1", InputPath: tests.WriteFile(t, dir, "1.in", "")}
	v := mustVerifier(t, Options{})

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("anything"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeUnknown {
		t.Fatalf("expected unknown outcome, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_MissingExpectedFile(t *testing.T) {
	tc := solution.TestCase{Name: "1", InputPath: "1.in", ExpectedOutputPath: filepath.Join(t.TempDir(), "missing.ans")}
	v := mustVerifier(t, Options{})

	_, err := v.CompareOutput(context.Background(), tc, []byte("x"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

// writeJudge creates a judge accepting when the actual output equals the
// number in the input file doubled.
func writeJudge(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("judge script requires sh")
	}
	script := `#!/bin/sh
in=$(cat "$1")
out=$(cat "$2")
echo "checking $in"
[ "$out" = "$((in * 2))" ]
`
	path := tests.WriteFile(t, dir, "judge.sh", script)
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	return path
}

func TestCompareOutput_SpecialJudge(t *testing.T) {
	dir := t.TempDir()
	judge := writeJudge(t, dir)
	v := mustVerifier(t, Options{JudgeCommand: judge})
	if !v.UsesSpecialJudge() {
		t.Fatalf("expected verifier to use the judge")
	}

	tc := solution.TestCase{Name: "1", InputPath: tests.WriteFile(t, dir, "1.in", "21")}

	cmp, err := v.CompareOutput(context.Background(), tc, []byte("42\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected judge to accept, got %v (output %q)", cmp.Outcome, cmp.JudgeOutput)
	}
	if string(cmp.JudgeOutput) != "checking 21\n" {
		t.Errorf("unexpected judge output %q", cmp.JudgeOutput)
	}

	cmp, err = v.CompareOutput(context.Background(), tc, []byte("41\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMismatch {
		t.Fatalf("expected judge to reject, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_SpecialJudgeReceivesExpectedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("judge script requires sh")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
[ -n "$3" ] && cmp -s "$2" "$3"
`
	judge := tests.WriteFile(t, dir, "judge.sh", script)
	if err := os.Chmod(judge, 0o755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	v := mustVerifier(t, Options{JudgeCommand: "sh " + judge})

	tc := newCase(t, dir, "", "same\n")
	cmp, err := v.CompareOutput(context.Background(), tc, []byte("same\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Outcome != solution.OutcomeMatch {
		t.Fatalf("expected match, got %v", cmp.Outcome)
	}
}

func TestCompareOutput_SpecialJudgeMissingBinary(t *testing.T) {
	dir := t.TempDir()
	v := mustVerifier(t, Options{JudgeCommand: filepath.Join(dir, "no-such-judge")})
	tc := solution.TestCase{Name: "1", InputPath: tests.WriteFile(t, dir, "1.in", "")}

	_, err := v.CompareOutput(context.Background(), tc, []byte("x"))
	if !errors.Is(err, pkgerrors.ErrJudgeFailed) {
		t.Fatalf("expected ErrJudgeFailed, got %v", err)
	}
}

func TestCompareOutput_SpecialJudgeTimeLimit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("judge script requires sh")
	}
	dir := t.TempDir()
	judge := tests.WriteFile(t, dir, "judge.sh", "exec sleep 10\n")
	v := mustVerifier(t, Options{JudgeCommand: "sh " + judge, JudgeTimeLimit: 200 * time.Millisecond})
	tc := solution.TestCase{Name: "1", InputPath: tests.WriteFile(t, dir, "1.in", "")}

	start := time.Now()
	_, err := v.CompareOutput(context.Background(), tc, []byte("x"))
	if !errors.Is(err, pkgerrors.ErrJudgeTimedOut) {
		t.Fatalf("expected ErrJudgeTimedOut, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("judge was not stopped in time, took %v", elapsed)
	}
}

func TestNewVerifier_EmptyJudgeCommand(t *testing.T) {
	_, err := NewVerifier(Options{JudgeCommand: "   "})
	if !errors.Is(err, pkgerrors.ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}
