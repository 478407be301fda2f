//go:build windows

// Package process manages the process group of the typesetting engine so
// that cancelling a run also stops the helpers the engine spawns.
package process

import (
	"os/exec"
	"strconv"
	"syscall"
)

// Isolate starts cmd in a new process group.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}

// KillProcessGroup kills the process tree rooted at pid using taskkill.
// /F = force kill, /T = terminate child processes.
func KillProcessGroup(pid int) error {
	if pid <= 0 {
		return syscall.EINVAL
	}
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
