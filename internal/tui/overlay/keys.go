package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the overlay's bindings. Panic is matched before Cancel so a
// modifier-qualified panic key wins over a bare cancel key.
type keyMap struct {
	Cancel key.Binding
	Panic  key.Binding
}

func newKeyMap(cancel, panicKeys []string) keyMap {
	return keyMap{
		Cancel: binding(cancel, "cancel"),
		Panic:  binding(panicKeys, "cancel all"),
	}
}

func binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// hints renders the enabled bindings as "esc cancel · alt+esc cancel all".
func (k keyMap) hints() string {
	var parts []string
	for _, b := range []key.Binding{k.Cancel, k.Panic} {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
