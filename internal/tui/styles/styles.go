// Package styles holds the colors and lipgloss styles of the status badge.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the badge palette
type Theme struct {
	Background lipgloss.Color
	Border     lipgloss.Color
	Active     lipgloss.Color // icon while the command runs
	Stopping   lipgloss.Color // icon while waiting for the command to exit
	Text       lipgloss.Color
	Subtext    lipgloss.Color
}

// DefaultTheme mirrors a dark translucent overlay with a red recording icon
func DefaultTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#323232"),
		Border:     lipgloss.Color("#505050"),
		Active:     lipgloss.Color("#ff5555"),
		Stopping:   lipgloss.Color("#f1fa8c"),
		Text:       lipgloss.Color("#f8f8f2"),
		Subtext:    lipgloss.Color("#6272a4"),
	}
}

// Styles are the rendered styles for one output
type Styles struct {
	Badge    lipgloss.Style
	Active   lipgloss.Style
	Stopping lipgloss.Style
	Label    lipgloss.Style
	Hint     lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w that honors NO_COLOR.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w, termenv.WithColorCache(true))
	if termenv.EnvNoColor() || os.Getenv("WAYSTT_WRAPPER_NO_COLOR") == "1" {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// New builds the badge styles for theme on renderer r.
func New(r *lipgloss.Renderer, t Theme) Styles {
	return Styles{
		Badge: r.NewStyle().
			Background(t.Background).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			BorderBackground(t.Background).
			Padding(0, 1),
		Active: r.NewStyle().
			Foreground(t.Active).
			Background(t.Background).
			Bold(true),
		Stopping: r.NewStyle().
			Foreground(t.Stopping).
			Background(t.Background).
			Bold(true),
		Label: r.NewStyle().
			Foreground(t.Text).
			Background(t.Background),
		Hint: r.NewStyle().
			Foreground(t.Subtext).
			Faint(true),
	}
}
