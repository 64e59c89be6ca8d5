// Package peers signals sibling instances of the wrapper, used by the panic
// shutdown gesture. Every broadcast is best effort.
package peers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoPeers is returned when no process matched the peer name.
var ErrNoPeers = errors.New("no peer processes found")

// Broadcaster sends sig to every process named name.
type Broadcaster interface {
	Broadcast(ctx context.Context, name string, sig os.Signal) error
}

// Method names accepted by New.
const (
	MethodKillall = "killall"
	MethodScan    = "scan"
)

// New returns the broadcaster for method.
func New(method string) (Broadcaster, error) {
	switch method {
	case "", MethodKillall:
		return &Killall{}, nil
	case MethodScan:
		return &Scan{}, nil
	default:
		return nil, fmt.Errorf("unknown peer method %q (valid: %s, %s)", method, MethodKillall, MethodScan)
	}
}

// SelfName returns the name sibling wrappers run under: the base name of
// the current executable.
func SelfName() string {
	return filepath.Base(os.Args[0])
}

// BroadcastError wraps a broadcast failure with the peer name and signal.
type BroadcastError struct {
	Name   string
	Signal os.Signal
	Err    error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcasting %v to %q: %v", e.Signal, e.Name, e.Err)
}

func (e *BroadcastError) Unwrap() error { return e.Err }
