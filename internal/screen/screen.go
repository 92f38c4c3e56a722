package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is removed.
type Resumer interface {
	Resume() tea.Cmd
}

// Unmounter is implemented by screens that hold work to cancel when they
// leave the stack.
type Unmounter interface {
	Unmount()
}

// ProgressChangedMsg tells the shell that stored progress was written.
type ProgressChangedMsg struct{}

// ProgressChanged returns a command emitting ProgressChangedMsg.
func ProgressChanged() tea.Cmd {
	return func() tea.Msg { return ProgressChangedMsg{} }
}
