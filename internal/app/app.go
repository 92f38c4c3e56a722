package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	chatsess "github.com/abhishaiv/AI-Study-Master/internal/chat"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/assignment"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/chat"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/dashboard"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/notfound"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/quiz"
	"github.com/abhishaiv/AI-Study-Master/internal/screens/topic"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
)

// Options holds the dependencies the views are built from.
type Options struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Lessons  topic.LessonSource
	Quizzes  quizgen.Generator
	Reviewer assignment.Reviewer
	Provider llm.Provider
	Logger   *logging.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates the model with the dashboard at the root.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	m := AppModel{opts: opts}
	m.router = router.New(
		dashboard.New(opts.Catalog, opts.Progress),
		router.WithResolver(m.resolve),
	)
	m.refreshStatus()
	return m
}

// resolve builds the screen for a route. Unknown topic ids get the
// not-found placeholder.
func (m AppModel) resolve(r router.Route) screen.Screen {
	switch r.View {
	case router.ViewTopic, router.ViewQuiz:
		t, ok := m.opts.Catalog.Lookup(r.TopicID)
		if !ok {
			return notfound.New(r.TopicID)
		}
		if r.View == router.ViewTopic {
			return topic.New(t, m.opts.Lessons, m.opts.Progress, m.opts.Logger)
		}
		return quiz.New(t, m.opts.Quizzes, m.opts.Progress, m.opts.Logger)
	case router.ViewChat:
		return chat.New(chatsess.NewSession(m.opts.Provider, m.opts.Catalog,
			chatsess.WithLogger(m.opts.Logger)))
	case router.ViewAssignment:
		return assignment.New(m.opts.Reviewer, m.opts.Logger)
	}
	return nil
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressChangedMsg:
		m.refreshStatus()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Navigate(router.ViewDashboard, "")
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// refreshStatus recomputes the header's right-hand text. It runs at
// startup and after screens report a progress write, never per frame.
func (m *AppModel) refreshStatus() {
	ov := progress.BuildOverview(m.opts.Catalog, m.opts.Progress.Load(context.Background()))
	m.status = fmt.Sprintf("Mastery %d%%  ", ov.OverallMastery)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
