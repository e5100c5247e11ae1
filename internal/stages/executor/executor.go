package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/pkg/solution"
	"github.com/mini-maxit/tester/utils"
	"go.uber.org/zap"
)

// waitDelay bounds how long output pipes are kept open by descendants after the
// direct child is gone.
const waitDelay = time.Second

type CommandConfig struct {
	Command   string
	Stdin     []byte
	TimeLimit time.Duration // 0 means unbounded
}

type Executor interface {
	ExecuteCommand(ctx context.Context, cfg CommandConfig) (*solution.RunResult, error)
	MemoryProbeEnabled() bool
}

type Options struct {
	// MemoryProbe is a GNU time compatible binary. Empty disables memory measurement.
	MemoryProbe string
	// Stderr receives the solution's standard error. Defaults to os.Stderr.
	Stderr io.Writer
}

type executor struct {
	logger      *zap.SugaredLogger
	memoryProbe string
	stderr      io.Writer
}

func NewExecutor(opts Options) Executor {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &executor{
		logger:      logger.NewNamedLogger("executor"),
		memoryProbe: opts.MemoryProbe,
		stderr:      stderr,
	}
}

func (e *executor) MemoryProbeEnabled() bool {
	return e.memoryProbe != ""
}

func (e *executor) ExecuteCommand(ctx context.Context, cfg CommandConfig) (*solution.RunResult, error) {
	args, err := ResolveCommand(cfg.Command)
	if err != nil {
		return nil, err
	}

	var memFile string
	if e.memoryProbe != "" {
		memFile, err = utils.CreateTempFile(constants.MemoryProbeTempPattern)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory probe file: %w", err)
		}
		defer utils.RemoveIO(memFile, false, true) //nolint:errcheck
		args = append([]string{e.memoryProbe, "-f", "%M", "-o", memFile, "--"}, args...)
	}

	runCtx := ctx
	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(cfg.Stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = e.stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var finishKill func()
	cmd.Cancel = func() error {
		finishKill = terminate(cmd, constants.KillGracePeriodMs*time.Millisecond)
		return nil
	}

	e.logger.Debugf("$ %v", args)
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	if finishKill != nil {
		finishKill()
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("failed to start %s: %w", args[0], classifyStartError(runErr))
	}

	result := &solution.RunResult{
		Stdout:  stdout.Bytes(),
		Elapsed: elapsed,
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.Status = solution.TimedOut()
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil, errors.Is(runErr, exec.ErrWaitDelay):
		result.Status = solution.Completed(exitCode(cmd.ProcessState))
	case errors.As(runErr, &exitErr):
		result.Status = solution.Completed(exitCode(exitErr.ProcessState))
	default:
		return nil, fmt.Errorf("failed to run %s: %w", args[0], runErr)
	}

	if memFile != "" {
		result.PeakMemoryMB = e.readPeakMemory(memFile)
	}

	return result, nil
}

// ResolveCommand splits command with shell word rules and checks the program
// exists and is executable.
func ResolveCommand(command string) ([]string, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, pkgerrors.ErrEmptyCommand
	}

	path, err := exec.LookPath(args[0])
	if err != nil && !errors.Is(err, exec.ErrDot) {
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrCommandNotExecutable, args[0])
		default:
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrCommandNotFound, args[0])
		}
	}
	if path != "" {
		args[0] = path
	}
	return args, nil
}

func classifyStartError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", pkgerrors.ErrCommandNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", pkgerrors.ErrCommandNotExecutable, err)
	default:
		return err
	}
}
