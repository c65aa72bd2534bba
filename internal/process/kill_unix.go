//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the caller's Wait reaps the leader either way.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// IsolateGroup starts cmd in its own process group so KillProcessGroup
// reaches the children it spawns (a compiler invoking a shell or a
// browser) without touching ours.
func IsolateGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
