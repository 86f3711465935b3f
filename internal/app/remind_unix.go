//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// terminate asks the daemon to shut down; it stops its scheduler and
// removes its PID file on the way out.
func terminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

// processExists reports whether pid is alive. Signal 0 checks without
// delivering anything.
func processExists(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
