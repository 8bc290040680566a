//go:build windows

// Package process stops the browser processes left behind by a renderer.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates pid and its child processes with taskkill
// (/F force, /T tree). Pids below 2 are ignored.
func KillProcessGroup(pid int) {
	if pid < 2 {
		return
	}
	// Errors ignored: the launcher already killed the leader in most cases
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
