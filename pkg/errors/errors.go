package errors

import "errors"

// Error messages.
var (
	ErrEmptyCommand          = errors.New("command is empty")
	ErrCommandNotFound       = errors.New("command not found")
	ErrCommandNotExecutable  = errors.New("command is not executable")
	ErrNoTestCases           = errors.New("no test cases found")
	ErrDanglingFixture       = errors.New("output file has no matching input file")
	ErrInvalidNamePattern    = errors.New("invalid name pattern")
	ErrInvalidCompareMode    = errors.New("invalid compare mode")
	ErrInvalidDisplayMode    = errors.New("invalid display mode")
	ErrInvalidVerdict        = errors.New("invalid verdict")
	ErrJudgeFailed           = errors.New("special judge could not be run")
	ErrJudgeTimedOut         = errors.New("special judge exceeded its time limit")
	ErrMemoryProbeFailed     = errors.New("memory probe is not available")
	ErrDuplicateCase         = errors.New("duplicate test case")
	ErrUnsupportedReportType = errors.New("unsupported report file type")
	ErrInvalidJobs           = errors.New("number of jobs must be positive")
)
