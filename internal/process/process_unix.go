//go:build !windows

package process

import "syscall"

// Chrome is launched as a process group leader, so signalling -pid
// reaches renderer and GPU helpers too.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
