//go:build windows

package runner

import (
	"os"
	"os/exec"
)

// Windows has no process groups reachable through os/exec or a graceful
// signal; both stages kill the process.
func setProcessGroup(*exec.Cmd) {}

func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}

func kill(p *os.Process) {
	if p != nil {
		_ = p.Kill()
	}
}
