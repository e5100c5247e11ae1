package reporter

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/mini-maxit/tester/pkg/solution"
	"go.uber.org/zap"
)

// CaseOutput is the material shown for a failed case.
type CaseOutput struct {
	Input       []byte
	Actual      []byte
	Expected    []byte // nil when the case has no expected output
	JudgeOutput []byte
}

type Reporter interface {
	ReportCase(res solution.TestResult, out CaseOutput)
	ReportSummary(result solution.Result)
}

type Options struct {
	DisplayMode string
	PrintInput  bool
	PrintMemory bool
	Silent      bool
	// Logger defaults to the "reporter" named logger.
	Logger *zap.SugaredLogger
}

type reporter struct {
	mu     sync.Mutex
	opts   Options
	logger *zap.SugaredLogger
}

func NewReporter(opts Options) Reporter {
	log := opts.Logger
	if log == nil {
		log = logger.NewNamedLogger("reporter")
	}
	if opts.DisplayMode == "" {
		opts.DisplayMode = constants.DefaultDisplayMode
	}
	return &reporter{opts: opts, logger: log}
}

// ReportCase prints everything about one case at once so that output of cases
// running in parallel never interleaves.
func (r *reporter) ReportCase(res solution.TestResult, out CaseOutput) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("")
	r.logger.Info(res.Name)
	r.logger.Infof("time: %f sec", res.ExecutionTime)
	r.reportMemory(res.PeakMemoryMB)

	if len(out.JudgeOutput) > 0 && !r.opts.Silent {
		r.logger.Infof("judge's output:\n%s", r.pretty(out.JudgeOutput))
	}

	switch res.Verdict {
	case solution.Accepted:
		r.logger.Infof("SUCCESS: %s", res.Verdict)
	case solution.TimeLimitExceeded, solution.MemoryLimitExceeded, solution.RuntimeError:
		r.logger.Infof("FAILURE: %s: %s", res.Verdict, res.Message)
		if !r.opts.Silent {
			r.printInput(out.Input)
		}
	case solution.WrongAnswer:
		r.logger.Infof("FAILURE: %s", res.Verdict)
		if !r.opts.Silent {
			r.printInput(out.Input)
			r.printOutputs(out.Actual, out.Expected)
		}
	case solution.Unknown:
		r.logger.Warnf("%s: %s", res.Verdict, res.Message)
		if !r.opts.Silent {
			r.printInput(out.Input)
			r.logger.Infof("output:\n%s", r.pretty(out.Actual))
		}
	}

	if res.Hint != "" {
		r.logger.Info(res.Hint)
	}
}

func (r *reporter) reportMemory(memory *float64) {
	if memory == nil {
		return
	}
	switch {
	case *memory < constants.MemoryPrintMB:
		if r.opts.PrintMemory {
			r.logger.Infof("memory: %f MB", *memory)
		}
	case *memory < constants.MemoryWarningMB:
		r.logger.Infof("memory: %f MB", *memory)
	default:
		r.logger.Warnf("memory: %f MB", *memory)
	}
}

func (r *reporter) printInput(input []byte) {
	if !r.opts.PrintInput {
		return
	}
	r.logger.Infof("input:\n%s", r.pretty(input))
}

func (r *reporter) printOutputs(actual, expected []byte) {
	switch r.opts.DisplayMode {
	case constants.DisplayModeAll:
		r.logger.Infof("actual output:\n%s", prettyContent(actual, -1, 0, 0))
		r.logger.Infof("expected output:\n%s", prettyContent(expected, -1, 0, 0))
	case constants.DisplayModeDiff, constants.DisplayModeDiffAll:
		limit := constants.PrettyPrintLimit
		if r.opts.DisplayMode == constants.DisplayModeDiffAll {
			limit = -1
		}
		diff, err := unifiedDiff(actual, expected, constants.DiffContextLines, limit)
		if err != nil {
			r.logger.Errorf("Failed to build diff: %s", err)
			return
		}
		r.logger.Infof("diff:\n%s", diff)
	default:
		r.logger.Infof("actual output:\n%s", r.pretty(actual))
		r.logger.Infof("expected output:\n%s", r.pretty(expected))
	}
}

func (r *reporter) pretty(content []byte) string {
	return prettyContent(content, constants.PrettyPrintLimit, constants.PrettyPrintHead, constants.PrettyPrintTail)
}

func (r *reporter) ReportSummary(result solution.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("")
	if result.Total() > 0 {
		r.logger.Infof("Test results:\n%s", formatTable(result))
	}

	switch {
	case result.Total() == 0:
		r.logger.Error(result.Message)
	case result.Passed:
		r.logger.Infof("%s (%d/%d)", result.Message, result.Counts[solution.Accepted], result.Total())
	default:
		r.logger.Infof("%s (%d/%d passed)", result.Message, result.Counts[solution.Accepted], result.Total())
	}
}

func formatTable(result solution.Result) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Test\tStatus\tTime (s)\tMemory (MB)")
	for _, tr := range result.TestResults {
		memory := "N/A"
		if tr.PeakMemoryMB != nil {
			memory = fmt.Sprintf("%.3f", *tr.PeakMemoryMB)
		}
		fmt.Fprintf(w, "%s\t%s\t%.6f\t%s\n", tr.Name, tr.Verdict, tr.ExecutionTime, memory)
	}
	_ = w.Flush()

	counts := make([]string, 0, len(solution.AllVerdicts))
	for _, v := range solution.AllVerdicts {
		if n := result.Counts[v]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s: %d", v, n))
		}
	}
	buf.WriteString(strings.Join(counts, ", "))
	return buf.String()
}
