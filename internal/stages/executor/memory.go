package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/mini-maxit/tester/pkg/constants"
	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/utils"
)

// CheckMemoryProbe verifies that probe understands the GNU time interface used
// to measure peak memory. Callers disable memory measurement when it fails.
func CheckMemoryProbe(ctx context.Context, probe string) error {
	if probe == "" {
		return fmt.Errorf("%w: no probe configured", pkgerrors.ErrMemoryProbeFailed)
	}

	path, err := exec.LookPath(probe)
	if err != nil {
		return fmt.Errorf("%w: %s", pkgerrors.ErrMemoryProbeFailed, err)
	}

	out, err := utils.CreateTempFile(constants.MemoryProbeTempPattern)
	if err != nil {
		return err
	}
	defer utils.RemoveIO(out, false, true) //nolint:errcheck

	cmd := exec.CommandContext(ctx, path, "-f", "%M KB", "-o", out, "--", "true")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", pkgerrors.ErrMemoryProbeFailed, err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		return fmt.Errorf("%w: %s", pkgerrors.ErrMemoryProbeFailed, err)
	}
	if !bytes.HasSuffix(bytes.TrimSpace(content), []byte("KB")) {
		return fmt.Errorf("%w: unexpected output %q", pkgerrors.ErrMemoryProbeFailed, content)
	}
	return nil
}

// readPeakMemory parses the probe output. GNU time may write a status line
// before the formatted value, so the last non-empty line is used.
func (e *executor) readPeakMemory(path string) *float64 {
	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Debugf("Failed to read memory probe output: %s", err)
		return nil
	}
	kb, err := parsePeakKB(content)
	if err != nil {
		e.logger.Debugf("Failed to parse memory probe output %q: %s", content, err)
		return nil
	}
	mb := kb / 1000
	return &mb
}

func parsePeakKB(content []byte) (float64, error) {
	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	last := bytes.TrimSpace(lines[len(lines)-1])
	if len(last) == 0 {
		return 0, fmt.Errorf("empty output")
	}
	return strconv.ParseFloat(string(last), 64)
}
