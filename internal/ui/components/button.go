package components

import (
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// Button is a non-focusable action label. The screen owning it handles
// the shortcut; Enabled only changes how the button is drawn.
type Button struct {
	Label   string
	Key     string
	Enabled bool
}

// NewButton returns a button for the action bound to key.
func NewButton(label, key string, enabled bool) Button {
	return Button{Label: label, Key: key, Enabled: enabled}
}

// View renders the button with its shortcut.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label += "  " + b.Key
	}
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}
