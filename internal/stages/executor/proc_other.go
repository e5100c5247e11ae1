//go:build !unix

package executor

import (
	"os"
	"os/exec"
	"time"
)

func setProcessGroup(*exec.Cmd) {}

// terminate kills only the direct child; there are no process groups to signal.
func terminate(cmd *exec.Cmd, _ time.Duration) func() {
	_ = cmd.Process.Kill()
	return func() {}
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
