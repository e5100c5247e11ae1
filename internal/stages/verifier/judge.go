package verifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/utils"
	"go.uber.org/zap"
)

// SpecialJudge runs an external checker as
//
//	judge <input> <actual output> <expected output or ''>
//
// and accepts the answer iff the checker exits with code 0. Whatever the checker
// prints is returned for logging only.
type SpecialJudge struct {
	args      []string
	timeLimit time.Duration
	logger    *zap.SugaredLogger
}

// NewSpecialJudge parses command. A zero timeLimit leaves the judge unbounded.
func NewSpecialJudge(command string, timeLimit time.Duration) (*SpecialJudge, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse judge command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("judge command: %w", pkgerrors.ErrEmptyCommand)
	}
	return &SpecialJudge{
		args:      args,
		timeLimit: timeLimit,
		logger:    logger.NewNamedLogger("special-judge"),
	}, nil
}

func (j *SpecialJudge) Judge(
	ctx context.Context,
	inputPath string,
	actual []byte,
	expectedPath string,
) (bool, []byte, error) {
	// Every invocation gets its own directory so concurrent cases never share files.
	tmpDir, err := os.MkdirTemp("", constants.SpecialJudgeTempDirPrefix+uuid.NewString()+"-")
	if err != nil {
		return false, nil, fmt.Errorf("failed to create judge directory: %w", err)
	}
	defer func() {
		if err := utils.RemoveIO(tmpDir, true, false); err != nil {
			j.logger.Warnf("Failed to remove judge directory %s: %s", tmpDir, err)
		}
	}()

	actualPath := filepath.Join(tmpDir, constants.SpecialJudgeActualFile)
	if err := os.WriteFile(actualPath, actual, 0644); err != nil {
		return false, nil, fmt.Errorf("failed to write actual output: %w", err)
	}

	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return false, nil, err
	}
	absExpected := ""
	if expectedPath != "" {
		absExpected, err = filepath.Abs(expectedPath)
		if err != nil {
			return false, nil, err
		}
	}

	judgeCtx := ctx
	if j.timeLimit > 0 {
		var cancel context.CancelFunc
		judgeCtx, cancel = context.WithTimeout(ctx, j.timeLimit)
		defer cancel()
	}

	args := append(append([]string{}, j.args[1:]...), absInput, actualPath, absExpected)
	cmd := exec.CommandContext(judgeCtx, j.args[0], args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = constants.JudgeWaitDelayMs * time.Millisecond

	j.logger.Debugf("$ %s %v", j.args[0], args)
	err = cmd.Run()
	if err == nil {
		return true, output.Bytes(), nil
	}

	if ctx.Err() != nil {
		return false, output.Bytes(), ctx.Err()
	}
	if errors.Is(judgeCtx.Err(), context.DeadlineExceeded) {
		return false, output.Bytes(), fmt.Errorf("%w: %s", pkgerrors.ErrJudgeTimedOut, j.timeLimit)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, output.Bytes(), nil
	}
	return false, output.Bytes(), fmt.Errorf("%w: %s", pkgerrors.ErrJudgeFailed, err)
}
