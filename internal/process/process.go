// Package process stops browser process trees left behind by go-rod.
package process

import "errors"

// ErrInvalidPID is returned for process ids that cannot name a child.
// Zero and negative values would signal the caller's own group.
var ErrInvalidPID = errors.New("invalid process id")

// KillTree stops pid and every process it started. Errors from the
// platform call are returned so callers can log them; the browser
// launcher still kills the leader on its own.
func KillTree(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	return killTree(pid)
}
