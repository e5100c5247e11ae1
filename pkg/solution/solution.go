package solution

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
)

type Verdict int

const (
	// Output matched the expected output and the run stayed within limits.
	Accepted Verdict = iota + 1
	// Output differs from the expected output (or the special judge rejected it).
	WrongAnswer
	// Solution exited with a non-zero exit code.
	RuntimeError
	// Solution was killed after exceeding the time limit.
	TimeLimitExceeded
	// Peak memory measured by the probe exceeded the memory limit.
	MemoryLimitExceeded
	// No expected output and no special judge, so the answer could not be checked.
	Unknown
)

var verdictNames = map[Verdict]string{
	Accepted:            "AC",
	WrongAnswer:         "WA",
	RuntimeError:        "RE",
	TimeLimitExceeded:   "TLE",
	MemoryLimitExceeded: "MLE",
	Unknown:             "UNKNOWN",
}

// AllVerdicts lists verdicts in reporting order.
var AllVerdicts = []Verdict{
	Accepted, WrongAnswer, RuntimeError, TimeLimitExceeded, MemoryLimitExceeded, Unknown,
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

func ParseVerdict(s string) (Verdict, error) {
	for v, name := range verdictNames {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", pkgerrors.ErrInvalidVerdict, s)
}

func (v Verdict) MarshalText() ([]byte, error) {
	if _, ok := verdictNames[v]; !ok {
		return nil, fmt.Errorf("%w: %d", pkgerrors.ErrInvalidVerdict, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	parsed, err := ParseVerdict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// TestCase is one (input, expected output) pair found by discovery.
// ExpectedOutputPath is empty when the case has no answer file.
type TestCase struct {
	Name               string `json:"name" yaml:"name"`
	InputPath          string `json:"input" yaml:"input"`
	ExpectedOutputPath string `json:"output,omitempty" yaml:"output,omitempty"`
}

func (tc TestCase) HasExpectedOutput() bool {
	return tc.ExpectedOutputPath != ""
}

type ExitStatus struct {
	TimedOut bool
	Code     int
}

func Completed(code int) ExitStatus {
	return ExitStatus{Code: code}
}

func TimedOut() ExitStatus {
	return ExitStatus{TimedOut: true}
}

// RunResult is what a single execution of the solution produced.
type RunResult struct {
	Status       ExitStatus
	Stdout       []byte
	Elapsed      time.Duration
	PeakMemoryMB *float64 // nil when no memory probe is available
}

type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeMatch
	OutcomeMismatch
)

func OutcomeOf(match bool) Outcome {
	if match {
		return OutcomeMatch
	}
	return OutcomeMismatch
}

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Limits configured for a run. Nil means unbounded.
type Limits struct {
	TimeLimitSec  *float64
	MemoryLimitMB *float64
}

type TestResult struct {
	Name          string   `json:"name" yaml:"name"`
	Verdict       Verdict  `json:"status" yaml:"status"`
	Passed        bool     `json:"passed" yaml:"passed"`
	ExitCode      int      `json:"exitcode" yaml:"exitcode"`
	TimedOut      bool     `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	ExecutionTime float64  `json:"elapsed" yaml:"elapsed"` // seconds
	PeakMemoryMB  *float64 `json:"memory" yaml:"memory"`
	TestCase      TestCase `json:"testcase" yaml:"testcase"`
	// Error message in case of failure. Does not include the output difference itself.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Hint    string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

type Result struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	Passed      bool            `json:"passed" yaml:"passed"`
	Message     string          `json:"message" yaml:"message"`
	Counts      map[Verdict]int `json:"counts" yaml:"counts"`
	TestResults []TestResult    `json:"test_results" yaml:"test_results"`
}

// Total returns the number of evaluated cases.
func (r Result) Total() int {
	return len(r.TestResults)
}

// Summary aggregates test results as they complete. It is safe for concurrent use;
// results are keyed by case name so completion order does not matter.
type Summary struct {
	mu      sync.Mutex
	runID   string
	results map[string]TestResult
}

func NewSummary() *Summary {
	return &Summary{
		runID:   uuid.NewString(),
		results: make(map[string]TestResult),
	}
}

func (s *Summary) RunID() string {
	return s.runID
}

// Add records the result of one case. A case can be recorded only once.
func (s *Summary) Add(tr TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[tr.Name]; exists {
		return fmt.Errorf("%w: %s", pkgerrors.ErrDuplicateCase, tr.Name)
	}
	tr.Passed = tr.Verdict == Accepted
	s.results[tr.Name] = tr
	return nil
}

// Result returns a snapshot sorted by case name.
func (s *Summary) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	testResults := make([]TestResult, 0, len(s.results))
	counts := make(map[Verdict]int, len(AllVerdicts))
	for _, tr := range s.results {
		testResults = append(testResults, tr)
		counts[tr.Verdict]++
	}
	sort.Slice(testResults, func(i, j int) bool {
		return testResults[i].Name < testResults[j].Name
	})

	passed := len(testResults) > 0 && counts[Accepted] == len(testResults)
	message := constants.SolutionMessageSuccess
	switch {
	case len(testResults) == 0:
		message = constants.SolutionMessageNoTestCases
	case !passed:
		message = constants.SolutionMessageTestFailed
	}

	return Result{
		RunID:       s.runID,
		Passed:      passed,
		Message:     message,
		Counts:      counts,
		TestResults: testResults,
	}
}
