//go:build !windows

// Package process manages the process group of the typesetting engine so
// that cancelling a run also stops the helpers the engine spawns.
package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts cmd in its own process group.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) error {
	if pid <= 0 {
		return syscall.EINVAL
	}
	return syscall.Kill(-pid, syscall.SIGKILL)
}
