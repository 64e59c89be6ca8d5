package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mcoffin/waystt-wrapper/internal/config"
	"github.com/mcoffin/waystt-wrapper/internal/supervisor"
)

// View renders the badge, placed on screen when fullscreen. A closing
// overlay renders nothing so the terminal is left clean.
func (m *Model) View() string {
	if m.closing {
		return ""
	}

	badge := m.badge()
	if !m.opts.Fullscreen {
		return lipgloss.NewStyle().MarginLeft(m.opts.Margin).Render(badge)
	}

	if hints := m.keys.hints(); hints != "" {
		align := lipgloss.Center
		if m.opts.Position.Left() {
			align = lipgloss.Left
		} else if m.opts.Position.Right() {
			align = lipgloss.Right
		}
		badge = lipgloss.JoinVertical(align, badge, m.styles.Hint.Render(hints))
	}
	if m.width <= 0 || m.height <= 0 {
		return badge
	}
	return m.place(badge)
}

func (m *Model) badge() string {
	var glyph, label string
	switch {
	case m.indicator == supervisor.IndicatorStopping && m.reduceMotion:
		glyph = m.styles.Stopping.Render(m.opts.Icon)
		label = "stopping"
	case m.indicator == supervisor.IndicatorStopping:
		glyph = m.spinner.View()
		label = "stopping"
	default:
		glyph = m.styles.Active.Render(m.opts.Icon)
		label = m.opts.Label
	}
	if label = m.fitLabel(label); label != "" {
		glyph += m.styles.Label.Render(" " + label)
	}
	return m.styles.Badge.Render(glyph)
}

// badgeChrome is the border, padding and separator around icon and label.
const badgeChrome = 5

// fitLabel truncates label so the badge fits the terminal, dropping it
// entirely when there is no room for even one cell.
func (m *Model) fitLabel(label string) string {
	if m.width <= 0 || label == "" {
		return label
	}
	room := m.width - badgeChrome - ansi.StringWidth(m.opts.Icon)
	if !m.opts.Fullscreen || m.opts.Position != config.PositionCenter {
		room -= m.opts.Margin
	}
	if room < 1 {
		return ""
	}
	return ansi.Truncate(label, room, "…")
}

// place anchors content to the configured edges, keeping margin cells
// between it and each anchored edge.
func (m *Model) place(content string) string {
	p := m.opts.Position
	margin := lipgloss.NewStyle()
	hpos, vpos := lipgloss.Center, lipgloss.Center

	switch {
	case p.Top():
		vpos = lipgloss.Top
		margin = margin.MarginTop(m.opts.Margin)
	case p.Bottom():
		vpos = lipgloss.Bottom
		margin = margin.MarginBottom(m.opts.Margin)
	}
	switch {
	case p.Left():
		hpos = lipgloss.Left
		margin = margin.MarginLeft(m.opts.Margin)
	case p.Right():
		hpos = lipgloss.Right
		margin = margin.MarginRight(m.opts.Margin)
	}

	return lipgloss.Place(m.width, m.height, hpos, vpos, margin.Render(content))
}
