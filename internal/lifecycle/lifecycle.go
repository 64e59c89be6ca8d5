// Package lifecycle holds the process-wide result of one supervised run.
package lifecycle

import "sync"

// Exit codes surfaced to the operating environment besides the child's own.
const (
	ExitOK        = 0
	ExitFailure   = 1   // spawn, configuration or wait failure
	ExitDismissed = 130 // host dismissed the surface, like an interrupt
)

// Reason records which trigger terminated the run.
type Reason int

const (
	None Reason = iota
	UserCancelled
	ChildExitedUnexpectedly
	HostDismissed
	SurfaceFailed // the UI could not run; the child was stopped
)

func (r Reason) String() string {
	switch r {
	case UserCancelled:
		return "user_cancelled"
	case ChildExitedUnexpectedly:
		return "child_exited_unexpectedly"
	case HostDismissed:
		return "host_dismissed"
	case SurfaceFailed:
		return "surface_failed"
	default:
		return "none"
	}
}

// ExitCode is a write-once exit code cell. The zero value reads as ExitOK.
type ExitCode struct {
	mu        sync.Mutex
	code      int
	reason    Reason
	committed bool
}

// Commit records code and reason if nothing was committed yet.
// It returns false, leaving the cell untouched, on every later call.
func (e *ExitCode) Commit(code int, reason Reason) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committed {
		return false
	}
	e.code = code
	e.reason = reason
	e.committed = true
	return true
}

// Code returns the committed exit code, or ExitOK if none was committed.
func (e *ExitCode) Code() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.code
}

// Reason returns the committed termination reason.
func (e *ExitCode) Reason() Reason {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reason
}

// Committed reports whether an exit code has been written.
func (e *ExitCode) Committed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}
