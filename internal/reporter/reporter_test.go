package reporter_test

import (
	"strings"
	"testing"

	"github.com/mini-maxit/tester/internal/reporter"
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/mini-maxit/tester/pkg/solution"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedReporter(opts reporter.Options) (reporter.Reporter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts.Logger = zap.New(core).Sugar()
	return reporter.NewReporter(opts), logs
}

func messages(logs *observer.ObservedLogs) string {
	var sb strings.Builder
	for _, entry := range logs.All() {
		sb.WriteString(entry.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

func ptr(f float64) *float64 { return &f }

var waOutput = reporter.CaseOutput{
	Input:    []byte("3\n1 2 3\n"),
	Actual:   []byte("1  2 3\n"),
	Expected: []byte("1 2 3\n"),
}

func waResult() solution.TestResult {
	return solution.TestResult{
		Name:    "sample_1",
		Verdict: solution.WrongAnswer,
		Message: constants.TestCaseMessageOutputDifference,
		Hint:    constants.TestCaseMessageIgnoreSpacesHint,
	}
}

func TestReportCase_Accepted(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{PrintInput: true})
	r.ReportCase(solution.TestResult{Name: "1", Verdict: solution.Accepted, Passed: true}, reporter.CaseOutput{
		Input:  []byte("in\n"),
		Actual: []byte("out\n"),
	})

	out := messages(logs)
	assert.Contains(t, out, "SUCCESS: AC")
	assert.NotContains(t, out, "input:")
}

func TestReportCase_WrongAnswerSummary(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{PrintInput: true, DisplayMode: constants.DisplayModeSummary})
	r.ReportCase(waResult(), waOutput)

	out := messages(logs)
	assert.Contains(t, out, "sample_1")
	assert.Contains(t, out, "FAILURE: WA")
	assert.Contains(t, out, "input:\n3\n1 2 3")
	assert.Contains(t, out, "actual output:\n1  2 3")
	assert.Contains(t, out, "expected output:\n1 2 3")
	assert.Contains(t, out, constants.TestCaseMessageIgnoreSpacesHint)
}

func TestReportCase_WrongAnswerDiff(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{DisplayMode: constants.DisplayModeDiff})
	r.ReportCase(waResult(), waOutput)

	out := messages(logs)
	assert.Contains(t, out, "--- expected")
	assert.Contains(t, out, "+++ actual")
	assert.Contains(t, out, "-1 2 3")
	assert.Contains(t, out, "+1  2 3")
	assert.NotContains(t, out, "input:")
}

func TestReportCase_Silent(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{Silent: true, PrintInput: true})
	r.ReportCase(waResult(), waOutput)

	out := messages(logs)
	assert.Contains(t, out, "FAILURE: WA")
	assert.NotContains(t, out, "input:")
	assert.NotContains(t, out, "actual output:")
}

func TestReportCase_RuntimeErrorPrintsInput(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{PrintInput: true})
	r.ReportCase(solution.TestResult{
		Name:     "2",
		Verdict:  solution.RuntimeError,
		ExitCode: 1,
		Message:  "Solution exited with non-zero exit code 1",
	}, reporter.CaseOutput{Input: []byte("boom\n")})

	out := messages(logs)
	assert.Contains(t, out, "FAILURE: RE: Solution exited with non-zero exit code 1")
	assert.Contains(t, out, "input:\nboom")
}

func TestReportCase_Unknown(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{PrintInput: true})
	r.ReportCase(solution.TestResult{
		Name:    "3",
		Verdict: solution.Unknown,
		Message: constants.TestCaseMessageUnknown,
	}, reporter.CaseOutput{Input: []byte("x\n"), Actual: []byte("y\n")})

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if assert.Len(t, warnings, 1) {
		assert.Contains(t, warnings[0].Message, "UNKNOWN")
	}
	assert.Contains(t, messages(logs), "output:\ny")
}

func TestReportCase_JudgeOutput(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{})
	r.ReportCase(solution.TestResult{Name: "1", Verdict: solution.Accepted}, reporter.CaseOutput{
		JudgeOutput: []byte("ok 3 numbers\n"),
	})
	assert.Contains(t, messages(logs), "judge's output:\nok 3 numbers")
}

func TestReportCase_Memory(t *testing.T) {
	tests := []struct {
		name        string
		memory      *float64
		printMemory bool
		wantPrinted bool
		wantLevel   zapcore.Level
	}{
		{"unknown", nil, true, false, zapcore.InfoLevel},
		{"small hidden", ptr(12), false, false, zapcore.InfoLevel},
		{"small forced", ptr(12), true, true, zapcore.InfoLevel},
		{"large", ptr(200), false, true, zapcore.InfoLevel},
		{"huge", ptr(600), false, true, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, logs := newObservedReporter(reporter.Options{PrintMemory: tt.printMemory})
			r.ReportCase(solution.TestResult{Name: "1", Verdict: solution.Accepted, PeakMemoryMB: tt.memory}, reporter.CaseOutput{})

			entries := logs.FilterMessageSnippet("memory:").All()
			if !tt.wantPrinted {
				assert.Empty(t, entries)
				return
			}
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.wantLevel, entries[0].Level)
			}
		})
	}
}

func TestReportSummary(t *testing.T) {
	summary := solution.NewSummary()
	assert.NoError(t, summary.Add(solution.TestResult{Name: "a", Verdict: solution.Accepted, ExecutionTime: 0.5}))
	assert.NoError(t, summary.Add(solution.TestResult{Name: "b", Verdict: solution.TimeLimitExceeded, PeakMemoryMB: ptr(3)}))

	r, logs := newObservedReporter(reporter.Options{})
	r.ReportSummary(summary.Result())

	out := messages(logs)
	assert.Contains(t, out, "Test")
	assert.Contains(t, out, "Memory (MB)")
	assert.Contains(t, out, "0.500000")
	assert.Contains(t, out, "3.000")
	assert.Contains(t, out, "AC: 1, TLE: 1")
	assert.Contains(t, out, constants.SolutionMessageTestFailed)
}

func TestReportSummary_Empty(t *testing.T) {
	r, logs := newObservedReporter(reporter.Options{})
	r.ReportSummary(solution.NewSummary().Result())

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if assert.Len(t, errs, 1) {
		assert.Equal(t, constants.SolutionMessageNoTestCases, errs[0].Message)
	}
}
