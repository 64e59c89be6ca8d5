// Package supervisor arbitrates between the three ways a supervised run can
// end: the user cancelling, the child exiting on its own, and the host
// dismissing the surface. The child handle lives in a Slot; whichever trigger
// takes it first owns the shutdown and the single exit code write.
//
// All Coordinator methods are meant to be called from one serialized event
// loop. The only blocking step, waiting for the child after a cancel, is
// returned to the caller as a WaitFunc to run elsewhere; its result comes
// back through Reaped on the loop.
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
	"github.com/mcoffin/waystt-wrapper/internal/peers"
	"github.com/mcoffin/waystt-wrapper/internal/process"
)

// Child is the supervised process as seen by the coordinator.
// *process.Handle implements it.
type Child interface {
	PID() int
	Signal() error
	Wait() (process.Status, error)
	TryWait() (process.Status, bool, error)
	Kill()
}

// Indicator is the state shown by the status surface.
type Indicator int

const (
	IndicatorActive Indicator = iota
	IndicatorStopping
)

func (i Indicator) String() string {
	if i == IndicatorStopping {
		return "stopping"
	}
	return "active"
}

// Surface is the UI the coordinator drives.
type Surface interface {
	SetStatus(Indicator)
	RequestClose()
}

// State is the shutdown state machine position.
type State int

const (
	Running      State = iota // slot occupied
	ShuttingDown              // slot emptied, reap in flight
	Terminated                // exit code committed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting_down"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// WaitResult is the outcome of a blocking wait on the child.
type WaitResult struct {
	Status process.Status
	Err    error
}

// WaitFunc blocks until the child exits. It touches no coordinator state.
type WaitFunc func() WaitResult

// DefaultBroadcastTimeout bounds the panic broadcast to peers.
const DefaultBroadcastTimeout = 2 * time.Second

// Coordinator owns the shutdown of one supervised child.
type Coordinator struct {
	slot    *Slot[Child]
	exit    *lifecycle.ExitCode
	surface Surface

	broadcaster      peers.Broadcaster
	peerName         string
	broadcastTimeout time.Duration

	mu    sync.Mutex
	state State
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithBroadcaster sets how the panic gesture reaches sibling wrappers.
func WithBroadcaster(b peers.Broadcaster, name string) Option {
	return func(c *Coordinator) {
		c.broadcaster = b
		c.peerName = name
	}
}

// WithBroadcastTimeout overrides DefaultBroadcastTimeout.
func WithBroadcastTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.broadcastTimeout = d
	}
}

// NewCoordinator registers child and returns a coordinator in the Running state.
func NewCoordinator(child Child, exit *lifecycle.ExitCode, surface Surface, opts ...Option) *Coordinator {
	c := &Coordinator{
		slot:             NewSlot(child),
		exit:             exit,
		surface:          surface,
		peerName:         peers.SelfName(),
		broadcastTimeout: DefaultBroadcastTimeout,
		state:            Running,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// Cancel handles the user's cancel gesture. With global set (the panic
// gesture) the graceful signal is first broadcast to sibling wrappers.
//
// It returns the blocking wait to run off the event loop, or nil if another
// trigger already took the child.
func (c *Coordinator) Cancel(global bool) WaitFunc {
	if global {
		c.broadcast()
	}

	child, ok := c.slot.Take()
	if !ok {
		slog.Debug("cancel ignored, shutdown already in progress")
		return nil
	}
	c.setState(ShuttingDown)
	slog.Info("cancel requested, initiating shutdown", "pid", child.PID(), "global", global)

	if err := child.Signal(); err != nil {
		slog.Warn("failed to send graceful signal", "error", err)
	}
	c.surface.SetStatus(IndicatorStopping)

	return func() WaitResult {
		st, err := child.Wait()
		return WaitResult{Status: st, Err: err}
	}
}

// Reaped completes a cancel once its WaitFunc has returned.
func (c *Coordinator) Reaped(r WaitResult) {
	code := r.Status.Code
	if r.Err != nil {
		slog.Error("failed waiting for child", "error", r.Err)
		code = lifecycle.ExitFailure
	} else {
		slog.Info("child process exited", "exit_code", code)
	}
	c.finish(code, lifecycle.UserCancelled)
}

// Dismiss handles the host closing the surface. It never blocks: the child
// is signaled, or killed if signaling fails, and the run ends with
// lifecycle.ExitDismissed.
func (c *Coordinator) Dismiss() {
	c.stop(lifecycle.ExitDismissed, lifecycle.HostDismissed, nil)
}

// Abort stops the child because the surface itself failed. It behaves like
// Dismiss but ends the run with lifecycle.ExitFailure.
func (c *Coordinator) Abort(cause error) {
	c.stop(lifecycle.ExitFailure, lifecycle.SurfaceFailed, cause)
}

func (c *Coordinator) stop(code int, reason lifecycle.Reason, cause error) {
	child, ok := c.slot.Take()
	if !ok {
		slog.Debug("stop ignored, shutdown already in progress", "reason", reason)
		return
	}
	c.setState(ShuttingDown)
	if cause != nil {
		slog.Error("surface failed, stopping child process", "pid", child.PID(), "error", cause)
	} else {
		slog.Warn("surface dismissed, stopping child process", "pid", child.PID())
	}

	if err := child.Signal(); err != nil {
		slog.Warn("failed to send graceful signal, force killing", "error", err)
		child.Kill()
	}
	c.finish(code, reason)
}

func (c *Coordinator) finish(code int, reason lifecycle.Reason) {
	if !c.exit.Commit(code, reason) {
		slog.Debug("exit code already committed", "code", c.exit.Code(), "reason", c.exit.Reason())
	}
	c.setState(Terminated)
	c.surface.RequestClose()
}

func (c *Coordinator) broadcast() {
	if c.broadcaster == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.broadcastTimeout)
	defer cancel()

	slog.Info("broadcasting shutdown to peers", "name", c.peerName)
	if err := c.broadcaster.Broadcast(ctx, c.peerName, process.GracefulSignal); err != nil {
		if errors.Is(err, peers.ErrNoPeers) {
			slog.Info("no peers to broadcast to", "name", c.peerName)
			return
		}
		slog.Warn("failed to broadcast shutdown to peers", "error", err)
	}
}

var _ Child = (*process.Handle)(nil)
