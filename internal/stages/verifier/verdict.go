package verifier

import (
	"fmt"

	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/mini-maxit/tester/pkg/solution"
)

// DecideVerdict maps one run to its verdict. Checks are made in a fixed order and
// the first one that applies wins: TLE, MLE, RE, WA, then UNKNOWN for cases that
// could not be checked, otherwise AC.
func DecideVerdict(run solution.RunResult, outcome solution.Outcome, limits solution.Limits) solution.Verdict {
	switch {
	case run.Status.TimedOut:
		return solution.TimeLimitExceeded
	case run.PeakMemoryMB != nil && limits.MemoryLimitMB != nil && *run.PeakMemoryMB > *limits.MemoryLimitMB:
		return solution.MemoryLimitExceeded
	case run.Status.Code != constants.ExitCodeSuccess:
		return solution.RuntimeError
	case outcome == solution.OutcomeMismatch:
		return solution.WrongAnswer
	case outcome == solution.OutcomeUnknown:
		return solution.Unknown
	default:
		return solution.Accepted
	}
}

// EvaluateTestCase builds the final result of a case.
func EvaluateTestCase(
	tc solution.TestCase,
	run solution.RunResult,
	comparison Comparison,
	limits solution.Limits,
) solution.TestResult {
	verdict := DecideVerdict(run, comparison.Outcome, limits)

	result := solution.TestResult{
		Name:          tc.Name,
		Verdict:       verdict,
		Passed:        verdict == solution.Accepted,
		ExitCode:      run.Status.Code,
		TimedOut:      run.Status.TimedOut,
		ExecutionTime: run.Elapsed.Seconds(),
		PeakMemoryMB:  run.PeakMemoryMB,
		TestCase:      tc,
		Hint:          comparison.Hint,
	}

	switch verdict {
	case solution.TimeLimitExceeded:
		limit := 0.0
		if limits.TimeLimitSec != nil {
			limit = *limits.TimeLimitSec
		}
		result.Message = fmt.Sprintf(constants.TestCaseMessageTimeOut, limit)
	case solution.MemoryLimitExceeded:
		result.Message = fmt.Sprintf(
			constants.TestCaseMessageMemoryLimitExceeded,
			*run.PeakMemoryMB,
			*limits.MemoryLimitMB,
		)
	case solution.RuntimeError:
		result.Message = fmt.Sprintf(constants.TestCaseMessageNonZeroExitCode, run.Status.Code)
	case solution.WrongAnswer:
		result.Message = constants.TestCaseMessageOutputDifference
	case solution.Unknown:
		result.Message = constants.TestCaseMessageUnknown
	}

	return result
}
