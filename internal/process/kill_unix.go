//go:build !windows

// Package process stops the browser processes left behind by a renderer.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, which
// takes Chrome's renderer and GPU helpers down with it. Pids below 2 are
// ignored: 0 would target our own group and 1 is init.
func KillProcessGroup(pid int) {
	if pid < 2 {
		return
	}
	// Errors ignored: the launcher already killed the leader in most cases
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
