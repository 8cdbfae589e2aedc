//go:build windows

package runlock

import "os"

// processAlive cannot cheaply distinguish a dead holder on Windows;
// finding the process at all counts as alive.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	p.Release()
	return true
}
