package supervisor

import (
	"log/slog"
	"time"

	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
)

// DefaultPollInterval is how often the unexpected-exit poller checks the child.
const DefaultPollInterval = 100 * time.Millisecond

// Poll is one tick of the unexpected-exit poller. It returns true once
// polling should stop: either the child was found gone, or another trigger
// already took it.
func (c *Coordinator) Poll() (stop bool) {
	child, ok := c.slot.Peek()
	if !ok {
		return true
	}

	st, exited, err := child.TryWait()
	if err == nil && !exited {
		return false
	}

	if _, ok := c.slot.TakeIf(func(cur Child) bool { return cur == child }); !ok {
		return true
	}
	c.setState(ShuttingDown)

	code := st.Code
	if err != nil {
		slog.Error("failed polling child, assuming it exited", "pid", child.PID(), "error", err)
		code = lifecycle.ExitFailure
	} else {
		slog.Warn("child process exited unexpectedly", "pid", child.PID(), "exit_code", code)
	}
	c.finish(code, lifecycle.ChildExitedUnexpectedly)
	return true
}
