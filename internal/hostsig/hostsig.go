// Package hostsig turns signals from the host environment into shutdown
// triggers for the supervisor.
package hostsig

import (
	"log/slog"
	"os"
	"os/signal"
)

// Trigger is what a host signal asks the supervisor to do.
type Trigger int

const (
	// Dismiss means the host is closing the surface.
	Dismiss Trigger = iota
	// Cancel means a peer asked for a cooperative shutdown.
	Cancel
)

func (t Trigger) String() string {
	if t == Cancel {
		return "cancel"
	}
	return "dismiss"
}

// Classify maps a received signal to its trigger.
func Classify(sig os.Signal) Trigger {
	if sig == cancelSignal {
		return Cancel
	}
	return Dismiss
}

// notifyFn and stopFn wrap os/signal; swapped in tests.
var (
	notifyFn = signal.Notify
	stopFn   = signal.Stop
)

// Watch delivers a Trigger on the returned channel for every host signal
// until stop is called. Delivery never blocks the signal handler: a trigger
// is dropped if the previous one has not been consumed yet.
func Watch() (triggers <-chan Trigger, stop func()) {
	sigs := make(chan os.Signal, 4)
	notifyFn(sigs, watched()...)

	out := make(chan Trigger, 1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				t := Classify(sig)
				slog.Info("received host signal", "signal", sig, "trigger", t)
				select {
				case out <- t:
				default:
					slog.Debug("host signal dropped, trigger pending", "signal", sig)
				}
			case <-done:
				return
			}
		}
	}()

	return out, func() {
		stopFn(sigs)
		close(done)
	}
}
