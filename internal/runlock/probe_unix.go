//go:build !windows

package runlock

import "syscall"

// processAlive probes the pid with signal 0.
func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
