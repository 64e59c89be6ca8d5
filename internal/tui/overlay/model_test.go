package overlay

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoffin/waystt-wrapper/internal/config"
	"github.com/mcoffin/waystt-wrapper/internal/process"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
)

// fakeController records calls and drives the model's Surface side the way
// the coordinator would.
type fakeController struct {
	m *Model

	cancels []bool
	reaped  []supervisor.WaitResult
	polls   int
	dismiss int

	exitOnPoll bool
	waiting    bool
}

func (c *fakeController) Cancel(global bool) supervisor.WaitFunc {
	c.cancels = append(c.cancels, global)
	if c.waiting {
		return nil
	}
	c.waiting = true
	c.m.SetStatus(supervisor.IndicatorStopping)
	return func() supervisor.WaitResult {
		return supervisor.WaitResult{Status: process.Status{Code: 3}}
	}
}

func (c *fakeController) Reaped(r supervisor.WaitResult) {
	c.reaped = append(c.reaped, r)
	c.m.RequestClose()
}

func (c *fakeController) Poll() bool {
	c.polls++
	if c.exitOnPoll {
		c.m.RequestClose()
		return true
	}
	return false
}

func (c *fakeController) Dismiss() {
	c.dismiss++
	c.m.RequestClose()
}

func (c *fakeController) Abort(error) {}

func newTestModel(t *testing.T, opts Options) (*Model, *fakeController) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	if opts.Output == nil {
		opts.Output = &strings.Builder{}
	}
	if opts.CancelKeys == nil {
		opts.CancelKeys = config.DefaultCancelKeys()
	}
	if opts.PanicKeys == nil {
		opts.PanicKeys = config.DefaultPanicKeys()
	}
	m := New(opts)
	c := &fakeController{m: m}
	m.Bind(c)
	return m, c
}

func updateModel(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// runCmd executes cmd and any batched commands, returning the messages
// that are not ticks.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestUpdate_CancelKeyOffloadsWait(t *testing.T) {
	m, c := newTestModel(t, Options{})

	cmd := updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, []bool{false}, c.cancels)
	assert.Empty(t, c.reaped, "the wait must not run inside Update")
	assert.False(t, m.Closing())

	var reaped tea.Msg
	for _, msg := range runCmd(cmd) {
		if r, ok := msg.(reapedMsg); ok {
			reaped = r
		}
	}
	require.NotNil(t, reaped)

	cmd = updateModel(m, reaped)
	require.Len(t, c.reaped, 1)
	assert.Equal(t, 3, c.reaped[0].Status.Code)
	assert.True(t, m.Closing())
	assert.True(t, isQuit(cmd))
}

func TestUpdate_CtrlCCancels(t *testing.T) {
	m, c := newTestModel(t, Options{})
	updateModel(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, []bool{false}, c.cancels)
}

func TestUpdate_PanicKeyIsGlobal(t *testing.T) {
	m, c := newTestModel(t, Options{})
	updateModel(m, tea.KeyMsg{Type: tea.KeyEsc, Alt: true})
	assert.Equal(t, []bool{true}, c.cancels)
}

func TestUpdate_CustomKeys(t *testing.T) {
	m, c := newTestModel(t, Options{CancelKeys: []string{"q"}, PanicKeys: []string{"Q"}})

	updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, c.cancels, "esc is not bound")

	updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Q")})
	updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, []bool{true, false}, c.cancels)
}

func TestUpdate_OtherKeysIgnored(t *testing.T) {
	m, c := newTestModel(t, Options{})
	cmd := updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Empty(t, c.cancels)
}

func TestUpdate_SecondCancelReturnsNoCommand(t *testing.T) {
	m, c := newTestModel(t, Options{})
	require.NotNil(t, updateModel(m, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Nil(t, updateModel(m, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Len(t, c.cancels, 2)
}

func TestUpdate_PollRearmsUntilExit(t *testing.T) {
	m, c := newTestModel(t, Options{PollInterval: time.Millisecond})

	cmd := updateModel(m, pollTickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.False(t, isQuit(cmd))
	_, ok := cmd().(pollTickMsg)
	assert.True(t, ok, "poll re-arms its timer")

	c.exitOnPoll = true
	cmd = updateModel(m, pollTickMsg(time.Now()))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, 2, c.polls)
}

func TestUpdate_HostMessages(t *testing.T) {
	m, c := newTestModel(t, Options{})
	assert.True(t, isQuit(updateModel(m, DismissMsg{})))
	assert.Equal(t, 1, c.dismiss)

	m, c = newTestModel(t, Options{})
	assert.NotNil(t, updateModel(m, CancelMsg{}))
	assert.Equal(t, []bool{false}, c.cancels)
}

func TestView_ShowsStatus(t *testing.T) {
	m, _ := newTestModel(t, Options{Icon: "●", Label: "listening"})

	assert.Contains(t, m.View(), "● listening")

	m.SetStatus(supervisor.IndicatorStopping)
	assert.Contains(t, m.View(), "stopping")
	assert.NotContains(t, m.View(), "listening")

	m.RequestClose()
	assert.Empty(t, m.View())
}

func TestView_ReduceMotionKeepsIcon(t *testing.T) {
	t.Setenv("WAYSTT_WRAPPER_REDUCE_MOTION", "1")
	m, _ := newTestModel(t, Options{Icon: "●"})
	require.True(t, m.reduceMotion)

	m.SetStatus(supervisor.IndicatorStopping)
	assert.Contains(t, m.View(), "● stopping")
}

func TestView_Placement(t *testing.T) {
	tests := []struct {
		pos     config.Position
		topRow  bool // badge border on the first non-margin row
		leftCol bool // badge border at the first non-margin column
	}{
		{config.PositionTopLeft, true, true},
		{config.PositionTopRight, true, false},
		{config.PositionBottomLeft, false, true},
		{config.PositionBottomRight, false, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.pos), func(t *testing.T) {
			m, _ := newTestModel(t, Options{
				Icon: "●", Label: "rec", Position: tc.pos, Margin: 1, Fullscreen: true,
				CancelKeys: []string{}, PanicKeys: []string{},
			})
			updateModel(m, tea.WindowSizeMsg{Width: 40, Height: 10})

			lines := strings.Split(m.View(), "\n")
			require.Len(t, lines, 10)

			row := 1
			if !tc.topRow {
				row = len(lines) - 2
			}
			line := []rune(lines[row])
			require.Len(t, line, 40)
			if tc.leftCol {
				assert.Equal(t, ' ', line[0], "margin column")
				assert.Contains(t, "╭╰", string(line[1]))
			} else {
				assert.Equal(t, ' ', line[39], "margin column")
				assert.Contains(t, "╮╯", string(line[38]))
			}
		})
	}
}

func TestView_TruncatesLabelToWidth(t *testing.T) {
	m, _ := newTestModel(t, Options{Icon: "●", Label: "listening to everything"})
	updateModel(m, tea.WindowSizeMsg{Width: 12, Height: 3})

	view := m.View()
	assert.Contains(t, view, "● liste…")
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 12, "line %q", line)
	}

	updateModel(m, tea.WindowSizeMsg{Width: 6, Height: 3})
	assert.NotContains(t, m.View(), "l", "no room for the label")
}

func TestView_FullscreenShowsHints(t *testing.T) {
	m, _ := newTestModel(t, Options{Fullscreen: true})
	view := m.View()
	assert.Contains(t, view, "esc/ctrl+c cancel")
	assert.Contains(t, view, "alt+esc cancel all")
}

func TestView_InlineHasNoHints(t *testing.T) {
	m, _ := newTestModel(t, Options{Label: "rec"})
	assert.NotContains(t, m.View(), "cancel")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Indicator.Position = config.PositionCenter
	cfg.Supervisor.RawPollInterval = "250ms"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, config.PositionCenter, opts.Position)
	assert.Equal(t, 250*time.Millisecond, opts.PollInterval)
	assert.Equal(t, cfg.Keys.Panic, opts.PanicKeys)
	assert.True(t, opts.Fullscreen)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WAYSTT_WRAPPER_POLL_MS", "25")
	m, _ := newTestModel(t, Options{})
	assert.Equal(t, 25*time.Millisecond, m.pollInterval)

	t.Setenv("WAYSTT_WRAPPER_POLL_MS", "-1")
	m, _ = newTestModel(t, Options{})
	assert.Equal(t, supervisor.DefaultPollInterval, m.pollInterval)
}
