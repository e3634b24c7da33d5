//go:build windows

package manager

import "os"

// processAlive reports whether pid names a running process. FindProcess
// always succeeds on Windows, so this is a best-effort check only.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}

// killProcess forcibly terminates pid.
func killProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
