// Package notfound renders the placeholder for routes that point at an
// unknown topic.
package notfound

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// NotFoundScreen is shown instead of a topic or quiz view.
type NotFoundScreen struct {
	topicID string
}

var _ screen.Screen = (*NotFoundScreen)(nil)
var _ screen.KeyHintProvider = (*NotFoundScreen)(nil)

// New creates the placeholder for topicID.
func New(topicID string) *NotFoundScreen {
	return &NotFoundScreen{topicID: topicID}
}

func (p *NotFoundScreen) Init() tea.Cmd {
	return nil
}

func (p *NotFoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return p, router.Navigate(router.ViewDashboard, "")
	}
	return p, nil
}

func (p *NotFoundScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("╌╌ Topic not found ╌╌\n\nThere is no topic %q.\nPress Enter to return to the dashboard.", p.topicID))
}

func (p *NotFoundScreen) Title() string {
	return "Not Found"
}

func (p *NotFoundScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Dashboard"}}
}
