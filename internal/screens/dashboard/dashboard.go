// Package dashboard is the home view: mastery figures, per-topic score
// bars, recent activity and the navigation menu.
package dashboard

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/components"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// DashboardScreen is the root screen.
type DashboardScreen struct {
	catalog  *catalog.Catalog
	progress *progress.Store
	now      func() time.Time

	overview progress.Overview
	menu     components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates the dashboard and loads the current progress.
func New(c *catalog.Catalog, st *progress.Store) *DashboardScreen {
	d := &DashboardScreen{catalog: c, progress: st, now: time.Now}
	d.refresh()
	return d
}

func (d *DashboardScreen) menuItems() []components.MenuItem {
	var items []components.MenuItem
	for _, row := range d.overview.Topics {
		id := row.Topic.ID
		items = append(items, components.MenuItem{
			Label:  row.Topic.Title,
			Note:   topicNote(row),
			Action: func() tea.Cmd { return router.Navigate(router.ViewTopic, id) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "Chat with your mentor", Action: func() tea.Cmd {
			return router.Navigate(router.ViewChat, "")
		}},
		components.MenuItem{Label: "Assignment helper", Action: func() tea.Cmd {
			return router.Navigate(router.ViewAssignment, "")
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func topicNote(row progress.TopicRow) string {
	switch {
	case row.Attempted:
		return fmt.Sprintf("best %d%%", row.BestScore)
	case row.Studied:
		return "studied"
	default:
		return ""
	}
}

func (d *DashboardScreen) refresh() {
	d.overview = progress.BuildOverview(d.catalog, d.progress.Load(context.Background()))
	d.menu.SetItems(d.menuItems())
}

// Overview returns the figures currently shown.
func (d *DashboardScreen) Overview() progress.Overview {
	return d.overview
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads progress when a view above the dashboard closes.
func (d *DashboardScreen) Resume() tea.Cmd {
	d.refresh()
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	ov := d.overview
	cw := min(width-4, 100)

	var b strings.Builder

	stats := fmt.Sprintf("Overall mastery %s     Topics completed %s",
		bandStyle(progress.BandFor(ov.OverallMastery)).Render(fmt.Sprintf("%d%%", ov.OverallMastery)),
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d/%d", ov.Completed, ov.TotalTopics)),
	)
	b.WriteString(theme.Card.Width(cw).Render(stats))
	b.WriteString("\n\n")

	left := d.renderScores(cw / 2)
	right := d.renderRecent(cw - cw/2)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Study"))
	b.WriteString("\n")
	b.WriteString(d.menu.View())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}

func (d *DashboardScreen) renderScores(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Quiz scores"))
	b.WriteString("\n")
	for _, row := range d.overview.Topics {
		label := fmt.Sprintf("%-3s", row.Label)
		if row.Studied {
			label += "✓"
		} else {
			label += " "
		}
		bar := components.NewScoreBar(label, row.BestScore, row.Attempted, bandColor(row.Band), width-2)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (d *DashboardScreen) renderRecent(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Recent activity"))
	b.WriteString("\n")
	if len(d.overview.Recent) == 0 {
		b.WriteString(theme.Hint.Render("No activity yet. Open a topic to start."))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	for _, a := range d.overview.Recent {
		when := relative(d.now(), a.Time())
		line := fmt.Sprintf("%s  %s", a.Details, lipgloss.NewStyle().Foreground(theme.TextDim).Render(when))
		if a.TopicID != "" {
			line = d.catalog.ShortLabel(a.TopicID) + "  " + line
		}
		b.WriteString("• " + line + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func bandColor(b progress.Band) color.Color {
	switch b {
	case progress.BandStrong:
		return theme.Success
	case progress.BandFair:
		return theme.Secondary
	default:
		return theme.Error
	}
}

func bandStyle(b progress.Band) lipgloss.Style {
	switch b {
	case progress.BandStrong:
		return theme.Strong
	case progress.BandFair:
		return theme.Fair
	default:
		return theme.Weak
	}
}

// relative renders a short age such as "5m ago".
func relative(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
