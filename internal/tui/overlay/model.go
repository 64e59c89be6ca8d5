// Package overlay is the terminal status surface: a small badge drawn with
// bubbletea on stderr while the supervised command runs.
package overlay

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcoffin/waystt-wrapper/internal/config"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
	"github.com/mcoffin/waystt-wrapper/internal/tui/styles"
)

// Controller is the part of *supervisor.Coordinator the overlay drives.
type Controller interface {
	Cancel(global bool) supervisor.WaitFunc
	Reaped(supervisor.WaitResult)
	Poll() bool
	Dismiss()
	Abort(cause error)
}

// Options configure the overlay.
type Options struct {
	Icon         string
	Label        string
	Position     config.Position
	Margin       int
	Fullscreen   bool
	CancelKeys   []string
	PanicKeys    []string
	PollInterval time.Duration

	Input  io.Reader // controlling TTY when nil
	Output io.Writer // stderr when nil
}

// OptionsFromConfig maps the [indicator], [keys] and [supervisor] sections to Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Icon:         cfg.Indicator.Icon,
		Label:        cfg.Indicator.Label,
		Position:     cfg.Indicator.Position,
		Margin:       cfg.Indicator.Margin,
		Fullscreen:   cfg.Indicator.Fullscreen,
		CancelKeys:   cfg.Keys.Cancel,
		PanicKeys:    cfg.Keys.Panic,
		PollInterval: cfg.PollInterval(),
	}
}

type (
	pollTickMsg time.Time
	reapedMsg   supervisor.WaitResult

	// DismissMsg asks the overlay to end the run because the host is closing it.
	DismissMsg struct{}
	// CancelMsg asks for a cooperative cancel, as if the cancel key was pressed.
	CancelMsg struct{}
)

// Model is the overlay's bubbletea model. It is also the coordinator's
// supervisor.Surface; the coordinator only calls it from inside Update.
type Model struct {
	ctrl    Controller
	opts    Options
	keys    keyMap
	styles  styles.Styles
	spinner spinner.Model

	indicator    supervisor.Indicator
	closing      bool
	width        int
	height       int
	reduceMotion bool
	pollInterval time.Duration
}

// New builds an unbound overlay; call Bind before running it.
func New(opts Options) *Model {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Icon == "" {
		opts.Icon = config.DefaultIcon
	}
	if opts.Position == "" {
		opts.Position = config.PositionTopRight
	}

	st := styles.New(styles.NewRenderer(opts.Output), styles.DefaultTheme())
	m := &Model{
		opts:         opts,
		keys:         newKeyMap(opts.CancelKeys, opts.PanicKeys),
		styles:       st,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.Stopping)),
		indicator:    supervisor.IndicatorActive,
		pollInterval: opts.PollInterval,
	}
	if m.pollInterval <= 0 {
		m.pollInterval = supervisor.DefaultPollInterval
	}
	applyEnvOverrides(m)
	return m
}

// Bind attaches the controller the overlay reports user input to.
func (m *Model) Bind(ctrl Controller) {
	m.ctrl = ctrl
}

// SetStatus implements supervisor.Surface.
func (m *Model) SetStatus(i supervisor.Indicator) {
	m.indicator = i
}

// RequestClose implements supervisor.Surface.
func (m *Model) RequestClose() {
	m.closing = true
}

// Closing reports whether the overlay has been asked to close.
func (m *Model) Closing() bool {
	return m.closing
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// Init starts the poll timer.
func (m *Model) Init() tea.Cmd {
	return m.pollTick()
}

// Update handles key presses, poll ticks, reap results and host triggers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Panic):
			cmd = m.cancel(true)
		case key.Matches(msg, m.keys.Cancel):
			cmd = m.cancel(false)
		}

	case CancelMsg:
		cmd = m.cancel(false)

	case DismissMsg:
		m.ctrl.Dismiss()

	case pollTickMsg:
		if !m.ctrl.Poll() {
			cmd = m.pollTick()
		}

	case reapedMsg:
		m.ctrl.Reaped(supervisor.WaitResult(msg))

	case spinner.TickMsg:
		if m.indicator == supervisor.IndicatorStopping && !m.reduceMotion {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	}

	if m.closing {
		return m, tea.Quit
	}
	return m, cmd
}

// cancel hands the blocking wait to bubbletea as a command so Update
// returns immediately; the result comes back as a reapedMsg.
func (m *Model) cancel(global bool) tea.Cmd {
	wait := m.ctrl.Cancel(global)
	if wait == nil {
		return nil
	}
	reap := func() tea.Msg { return reapedMsg(wait()) }
	if m.reduceMotion {
		return reap
	}
	return tea.Batch(reap, m.spinner.Tick)
}
