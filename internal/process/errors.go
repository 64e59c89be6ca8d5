package process

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyCommand is returned by Spawn when no command was given.
var ErrEmptyCommand = errors.New("no command specified")

// SpawnError reports that the OS could not create the child process.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// SignalError reports that a signal could not be delivered to the child.
type SignalError struct {
	PID    int
	Signal os.Signal
	Err    error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("failed to send %v to pid %d: %v", e.Signal, e.PID, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }
