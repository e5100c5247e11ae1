package constants

// Compare modes.
const (
	CompareModeExactMatch              = "exact-match"
	CompareModeCRLFInsensitiveExact    = "crlf-insensitive-exact-match"
	CompareModeIgnoreSpaces            = "ignore-spaces"
	CompareModeIgnoreSpacesAndNewlines = "ignore-spaces-and-newlines"
)

// Display modes.
const (
	DisplayModeSummary = "summary"
	DisplayModeAll     = "all"
	DisplayModeDiff    = "diff"
	DisplayModeDiffAll = "diff-all"
)

// Test file naming.
const (
	DefaultNamePattern = "%s.%e"
	InputExt           = "in"
	AnswerExt          = "ans"
	LegacyOutputExt    = "out"
	GroupNameSeparator = "_"
)

// TestCaseResult messages.
const (
	TestCaseMessageTimeOut             = "Solution timed out after %.3f s"
	TestCaseMessageMemoryLimitExceeded = "Solution used %.3f MB, exceeding the memory limit of %.3f MB"
	TestCaseMessageNonZeroExitCode     = "Solution exited with non-zero exit code %d"
	TestCaseMessageOutputDifference    = "Output differs from the expected output"
	TestCaseMessageUnknown             = "No expected output and no special judge, the answer cannot be verified"
	TestCaseMessageIgnoreSpacesHint    = "This would be AC if spaces and newlines were ignored. " +
		"Please use --ignore-spaces (-S) or --ignore-spaces-and-newlines (-N)."
)

// SolutionResult messages.
const (
	SolutionMessageSuccess     = "all tests passed"
	SolutionMessageTestFailed  = "some cases failed"
	SolutionMessageNoTestCases = "no tests"
)

// Exit codes of the harness itself.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

// Command line flags that preset another setting.
const (
	FlagIgnoreSpaces            = "ignore-spaces"
	FlagIgnoreSpacesAndNewlines = "ignore-spaces-and-newlines"
	FlagDiff                    = "diff"
)

// Memory reporting thresholds in megabytes.
const (
	MemoryPrintMB   = 100
	MemoryWarningMB = 500
)

// Pretty printing limits.
const (
	PrettyPrintLimit = 40
	PrettyPrintHead  = 20
	PrettyPrintTail  = 10
	DiffContextLines = 3
)

// Configuration constants.
const (
	DefaultCommand           = "./a.out"
	DefaultWindowsCommand    = `.\a.exe`
	DefaultTestDirectory     = "data"
	DefaultCompareMode       = CompareModeCRLFInsensitiveExact
	DefaultDisplayMode       = DisplayModeSummary
	DefaultJobs              = 1
	DefaultJudgeTimeLimitSec = 60.0
	DefaultMemoryProbe       = "time"
	DefaultDarwinProbe       = "gtime"
	DefaultLogDir            = "logs"
	DefaultLogLevel          = "info"
	DefaultResultQueueName   = "test_results"
	DefaultConfigFileName    = "tester"
	LegacyTestDirectoryName  = "test"
	LegacyTestsDirectoryName = "tests"
)

// Process handling.
const (
	SpecialJudgeTempDirPrefix = "tester-judge-"
	SpecialJudgeActualFile    = "actual.ans"
	MemoryProbeTempPattern    = "tester-mem-*"
	KillGracePeriodMs         = 100
	JudgeWaitDelayMs          = 1000
)

// Queue message types.
const (
	QueueMessageTypeTestRun = "test-run"
)
