//go:build windows

package app

import "os"

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{os.Interrupt}

// terminate kills the daemon. Windows has no SIGTERM, so the daemon gets no
// chance to clean up and the caller removes the PID file.
func terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

// processExists reports whether pid is alive. FindProcess always succeeds
// on Windows; Signal(nil) fails for a missing process.
func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(os.Signal(nil)) == nil
}
