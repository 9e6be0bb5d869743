//go:build !windows

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child in its own process group so signals reach
// any processes it spawns.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the process group.
func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, syscall.SIGTERM)
}

// kill sends SIGKILL to the process group, ignoring an already-gone group.
func kill(p *os.Process) {
	if p == nil {
		return
	}
	_ = syscall.Kill(-p.Pid, syscall.SIGKILL)
}
