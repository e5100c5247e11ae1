//go:build unix

package executor

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the whole process group and schedules SIGKILL
// after grace. The returned func delivers the pending SIGKILL at once; it must
// run after the direct child is reaped so that members ignoring SIGTERM die too.
func terminate(cmd *exec.Cmd, grace time.Duration) func() {
	pgid := cmd.Process.Pid
	if err := unix.Kill(-pgid, unix.SIGTERM); err != nil {
		_ = cmd.Process.Kill()
		return func() {}
	}
	timer := time.AfterFunc(grace, func() {
		_ = unix.Kill(-pgid, unix.SIGKILL)
	})
	return func() {
		if timer.Stop() {
			_ = unix.Kill(-pgid, unix.SIGKILL)
		}
	}
}

// exitCode reports -signal for processes killed by a signal.
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return state.ExitCode()
}
