// Package headless drives a supervised run without a terminal overlay, for
// when stderr is not a terminal. Status changes are logged instead of drawn.
package headless

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoffin/waystt-wrapper/internal/hostsig"
	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
)

// watchFn subscribes to host signals; swapped in tests.
var watchFn = hostsig.Watch

// surface records what the coordinator asks of it. It is only touched from
// the Run loop.
type surface struct {
	status supervisor.Indicator
	closed bool
}

func (s *surface) SetStatus(i supervisor.Indicator) {
	s.status = i
	slog.Info("status changed", "indicator", i)
}

func (s *surface) RequestClose() {
	s.closed = true
}

// Run supervises child until the run ends. Poll ticks, host triggers and
// reap results are handled on one goroutine; the blocking wait after a
// cancel runs on its own goroutine and only reports back.
//
// Cancelling ctx dismisses the run.
func Run(ctx context.Context, child supervisor.Child, exit *lifecycle.ExitCode, pollInterval time.Duration, opts ...supervisor.Option) {
	if pollInterval <= 0 {
		pollInterval = supervisor.DefaultPollInterval
	}

	s := &surface{status: supervisor.IndicatorActive}
	coord := supervisor.NewCoordinator(child, exit, s, opts...)

	triggers, stop := watchFn()
	defer stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	reaped := make(chan supervisor.WaitResult, 1)
	done := ctx.Done()

	slog.Info("running headless", "pid", child.PID(), "poll_interval", pollInterval)
	for !s.closed {
		select {
		case <-ticker.C:
			coord.Poll()

		case t := <-triggers:
			if t == hostsig.Cancel {
				if wait := coord.Cancel(false); wait != nil {
					go func() { reaped <- wait() }()
				}
				continue
			}
			coord.Dismiss()

		case r := <-reaped:
			coord.Reaped(r)

		case <-done:
			done = nil
			slog.Debug("context cancelled, dismissing", "error", ctx.Err())
			coord.Dismiss()
		}
	}
}
