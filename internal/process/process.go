// Package process owns the single child process supervised by the wrapper.
//
// A Handle is created by Spawn and reaped by a background goroutine that
// publishes the exit status exactly once. Wait blocks on that publication,
// TryWait peeks at it, and Signal/Kill act on the live PID until it is reaped.
package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

// Handle is a running child process. It must not be copied.
type Handle struct {
	cmd     *exec.Cmd
	command []string

	done   chan struct{}
	once   sync.Once
	status Status
	err    error
}

// startFn starts cmd; replaced in tests to simulate OS spawn failures.
var startFn = func(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Spawn starts command[0] with command[1:] as arguments. The child's stdin is
// /dev/null; stdout and stderr are the wrapper's own, untouched.
func Spawn(command []string) (*Handle, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	slog.Info("spawning child process", "command", command)

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setSysProcAttr(cmd)

	if err := startFn(cmd); err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	h := &Handle{
		cmd:     cmd,
		command: append([]string(nil), command...),
		done:    make(chan struct{}),
	}
	go h.reap()

	slog.Info("child process spawned", "pid", h.PID())
	return h, nil
}

func (h *Handle) reap() {
	err := h.cmd.Wait()
	h.resolve(statusFromWait(h.cmd.ProcessState, err))
}

func (h *Handle) resolve(status Status, err error) {
	h.once.Do(func() {
		h.status = status
		h.err = err
		close(h.done)
	})
}

// PID returns the OS process ID of the child.
func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Command returns the command line the child was started with.
func (h *Handle) Command() []string {
	return h.command
}

// Signal asks the child to shut down cooperatively. It neither blocks nor
// reaps; a child that is already gone yields a *SignalError.
func (h *Handle) Signal() error {
	slog.Info("sending graceful signal to child", "pid", h.PID(), "signal", GracefulSignal)
	if err := h.cmd.Process.Signal(GracefulSignal); err != nil {
		return &SignalError{PID: h.PID(), Signal: GracefulSignal, Err: err}
	}
	return nil
}

// Wait blocks until the child has exited and returns its status.
// It can block indefinitely and must not run on the UI event loop.
func (h *Handle) Wait() (Status, error) {
	slog.Info("waiting for child process to exit", "pid", h.PID())
	<-h.done
	if h.err != nil {
		return h.status, h.err
	}
	slog.Info("child process exited", "pid", h.PID(), "status", h.status)
	return h.status, nil
}

// TryWait reports the child's status without blocking. exited is false
// while the child is still running.
func (h *Handle) TryWait() (status Status, exited bool, err error) {
	select {
	case <-h.done:
		return h.status, true, h.err
	default:
		return Status{}, false, nil
	}
}

// Kill terminates the child unconditionally. Failures are logged, not returned.
func (h *Handle) Kill() {
	slog.Warn("force killing child process", "pid", h.PID())
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		slog.Error("failed to force kill child process", "pid", h.PID(), "error", err)
	}
}

// Status describes how a child process exited.
type Status struct {
	Code   int    // exit code, 1 when the child was killed by a signal
	Signal string // name of the terminating signal, if any
}

// Success reports whether the child exited zero.
func (s Status) Success() bool {
	return s.Code == 0 && s.Signal == ""
}

func (s Status) String() string {
	if s.Signal != "" {
		return fmt.Sprintf("signal=%s code=%d", s.Signal, s.Code)
	}
	return fmt.Sprintf("code=%d", s.Code)
}

// LogValue implements slog.LogValuer.
func (s Status) LogValue() slog.Value {
	if s.Signal != "" {
		return slog.GroupValue(slog.Int("code", s.Code), slog.String("signal", s.Signal))
	}
	return slog.GroupValue(slog.Int("code", s.Code))
}

// statusFromWait converts the result of cmd.Wait into a Status. A non-exit
// error from Wait is returned as is with code 1.
func statusFromWait(ps *os.ProcessState, waitErr error) (Status, error) {
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Status{Code: 1}, fmt.Errorf("waiting for child: %w", waitErr)
		}
		ps = exitErr.ProcessState
	}
	if ps == nil {
		return Status{Code: 1}, errors.New("waiting for child: no process state")
	}

	code := ps.ExitCode()
	st := Status{Code: code}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		st.Signal = ws.Signal().String()
	}
	if code < 0 {
		st.Code = 1
	}
	return st, nil
}
