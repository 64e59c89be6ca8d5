package overlay

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcoffin/waystt-wrapper/internal/hostsig"
	"github.com/mcoffin/waystt-wrapper/internal/lifecycle"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
)

// watchFn subscribes to host signals; swapped in tests.
var watchFn = hostsig.Watch

// errClosedEarly is reported when the program stops without the coordinator
// having ended the run.
var errClosedEarly = errors.New("overlay closed before the run ended")

// Run shows the overlay for child until the run ends, then returns. The exit
// code is committed to exit before Run returns, except when an in-flight
// cancel is cut short by a surface failure.
func Run(child supervisor.Child, exit *lifecycle.ExitCode, opts Options, coordOpts ...supervisor.Option) error {
	m := New(opts)
	coord := supervisor.NewCoordinator(child, exit, m, coordOpts...)
	m.Bind(coord)

	p := tea.NewProgram(m, programOptions(m.opts)...)

	triggers, stop := watchFn()
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go forward(p, triggers, done)

	slog.Debug("starting overlay", "fullscreen", m.opts.Fullscreen, "position", m.opts.Position)
	if _, err := p.Run(); err != nil {
		coord.Abort(err)
		return err
	}
	if !exit.Committed() {
		coord.Abort(errClosedEarly)
	}
	return nil
}

func programOptions(opts Options) []tea.ProgramOption {
	popts := []tea.ProgramOption{
		tea.WithOutput(opts.Output),
		tea.WithoutSignalHandler(),
	}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	} else {
		popts = append(popts, tea.WithInputTTY())
	}
	if opts.Fullscreen {
		popts = append(popts, tea.WithAltScreen())
	}
	return popts
}

// forward turns host triggers into messages for the program.
func forward(p *tea.Program, triggers <-chan hostsig.Trigger, done <-chan struct{}) {
	for {
		select {
		case t := <-triggers:
			switch t {
			case hostsig.Cancel:
				p.Send(CancelMsg{})
			default:
				p.Send(DismissMsg{})
			}
		case <-done:
			return
		}
	}
}
