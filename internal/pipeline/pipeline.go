package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/internal/reporter"
	"github.com/mini-maxit/tester/internal/stages/executor"
	"github.com/mini-maxit/tester/internal/stages/verifier"
	"github.com/mini-maxit/tester/pkg/solution"
	"go.uber.org/zap"
)

// Worker runs single test cases: execute, compare, decide the verdict, report.
type Worker interface {
	ProcessCase(ctx context.Context, tc solution.TestCase) (solution.TestResult, error)
	GetId() int
}

type Config struct {
	Command   string
	TimeLimit time.Duration // zero means unbounded
	Limits    solution.Limits
}

type worker struct {
	id       int
	cfg      Config
	executor executor.Executor
	verifier verifier.Verifier
	reporter reporter.Reporter
	logger   *zap.SugaredLogger
}

func NewWorker(
	id int,
	cfg Config,
	executor executor.Executor,
	verifier verifier.Verifier,
	reporter reporter.Reporter,
) Worker {
	logger := logger.NewNamedLogger(fmt.Sprintf("worker-%d", id))

	return &worker{
		id:       id,
		cfg:      cfg,
		executor: executor,
		verifier: verifier,
		reporter: reporter,
		logger:   logger,
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

// ProcessCase returns an error only when the harness itself fails. Anything the
// solution does wrong ends up in the verdict.
func (ws *worker) ProcessCase(ctx context.Context, tc solution.TestCase) (solution.TestResult, error) {
	ws.logger.Debugf("Processing case %s", tc.Name)

	input, err := os.ReadFile(tc.InputPath)
	if err != nil {
		return solution.TestResult{}, fmt.Errorf("failed to read input of case %s: %w", tc.Name, err)
	}

	run, err := ws.executor.ExecuteCommand(ctx, executor.CommandConfig{
		Command:   ws.cfg.Command,
		Stdin:     input,
		TimeLimit: ws.cfg.TimeLimit,
	})
	if err != nil {
		return solution.TestResult{}, fmt.Errorf("case %s: %w", tc.Name, err)
	}

	// A killed run is TLE whatever it printed, so its output is never compared.
	var comparison verifier.Comparison
	if !run.Status.TimedOut {
		comparison, err = ws.verifier.CompareOutput(ctx, tc, run.Stdout)
		if err != nil {
			return solution.TestResult{}, err
		}
	}

	result := verifier.EvaluateTestCase(tc, *run, comparison, ws.cfg.Limits)
	ws.reporter.ReportCase(result, reporter.CaseOutput{
		Input:       input,
		Actual:      run.Stdout,
		Expected:    comparison.Expected,
		JudgeOutput: comparison.JudgeOutput,
	})

	ws.logger.Debugf("Finished case %s [%s]", tc.Name, result.Verdict)
	return result, nil
}
