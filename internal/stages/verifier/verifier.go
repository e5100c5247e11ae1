package verifier

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/mini-maxit/tester/pkg/solution"
	"go.uber.org/zap"
)

// Comparison is the result of checking one actual output.
type Comparison struct {
	Outcome     solution.Outcome
	Expected    []byte // content of the expected output file, nil if there is none
	Hint        string
	JudgeOutput []byte
}

type Verifier interface {
	CompareOutput(ctx context.Context, tc solution.TestCase, actual []byte) (Comparison, error)
	UsesSpecialJudge() bool
}

type Options struct {
	CompareMode    CompareMode
	FloatTolerance *float64
	JudgeCommand   string
	// JudgeTimeLimit bounds every judge invocation; 0 means unbounded.
	JudgeTimeLimit time.Duration
}

type verifier struct {
	comparator Comparator
	isExact    bool
	hint       Comparator
	judge      *SpecialJudge
	logger     *zap.SugaredLogger
}

// NewVerifier builds a verifier. A configured judge command replaces the
// comparator for every case.
func NewVerifier(opts Options) (Verifier, error) {
	if opts.CompareMode == 0 {
		opts.CompareMode = CRLFInsensitiveExactMatch
	}
	comparator, isExact := NewComparator(opts.CompareMode, opts.FloatTolerance)

	v := &verifier{
		comparator: comparator,
		isExact:    isExact,
		hint:       newHintComparator(),
		logger:     logger.NewNamedLogger("verifier"),
	}

	if opts.JudgeCommand != "" {
		judge, err := NewSpecialJudge(opts.JudgeCommand, opts.JudgeTimeLimit)
		if err != nil {
			return nil, err
		}
		v.judge = judge
	}

	return v, nil
}

func (v *verifier) UsesSpecialJudge() bool {
	return v.judge != nil
}

func (v *verifier) CompareOutput(ctx context.Context, tc solution.TestCase, actual []byte) (Comparison, error) {
	var expected []byte
	if tc.HasExpectedOutput() {
		var err error
		expected, err = os.ReadFile(tc.ExpectedOutputPath)
		if err != nil {
			return Comparison{}, fmt.Errorf("failed to read expected output %s: %w", tc.ExpectedOutputPath, err)
		}
	}

	if v.judge != nil {
		accepted, judgeOutput, err := v.judge.Judge(ctx, tc.InputPath, actual, tc.ExpectedOutputPath)
		if err != nil {
			return Comparison{}, fmt.Errorf("case %s: %w", tc.Name, err)
		}
		return Comparison{
			Outcome:     solution.OutcomeOf(accepted),
			Expected:    expected,
			JudgeOutput: judgeOutput,
		}, nil
	}

	if !tc.HasExpectedOutput() {
		v.logger.Warnf("No expected output file for %s, skipping comparison", tc.Name)
		return Comparison{Outcome: solution.OutcomeUnknown}, nil
	}

	trimmedActual := trimTrailingSpace(actual)
	trimmedExpected := trimTrailingSpace(expected)
	match := v.comparator.Compare(trimmedActual, trimmedExpected)

	comparison := Comparison{
		Outcome:  solution.OutcomeOf(match),
		Expected: expected,
	}
	if !match && v.isExact && v.hint.Compare(trimmedActual, trimmedExpected) {
		comparison.Hint = constants.TestCaseMessageIgnoreSpacesHint
	}
	return comparison, nil
}
