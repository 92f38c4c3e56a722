// Package assignment is the draft review view: an assignment prompt, the
// student's draft and the mentor's feedback.
package assignment

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/components"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// Reviewer produces feedback. review.Reviewer satisfies it.
type Reviewer interface {
	Review(ctx context.Context, prompt, draft string) (string, error)
}

type reviewDoneMsg struct {
	feedback string
	err      error
}

const (
	focusPrompt = iota
	focusDraft
)

// AssignmentScreen holds the two text areas and the feedback pane.
type AssignmentScreen struct {
	reviewer Reviewer
	logger   *logging.Logger

	prompt textarea.Model
	draft  textarea.Model
	focus  int

	ctx      context.Context
	cancel   context.CancelFunc
	pending  bool
	feedback string
	failed   bool
}

var _ screen.Screen = (*AssignmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssignmentScreen)(nil)
var _ screen.Unmounter = (*AssignmentScreen)(nil)

// New creates the assignment helper.
func New(rv Reviewer, logger *logging.Logger) *AssignmentScreen {
	prompt := textarea.New()
	prompt.Placeholder = "Paste the assignment prompt..."
	prompt.ShowLineNumbers = false
	prompt.SetHeight(4)

	draft := textarea.New()
	draft.Placeholder = "Paste your draft, code or essay..."
	draft.ShowLineNumbers = false
	draft.SetHeight(8)

	ctx, cancel := context.WithCancel(context.Background())
	return &AssignmentScreen{
		reviewer: rv,
		logger:   logger,
		prompt:   prompt,
		draft:    draft,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *AssignmentScreen) Init() tea.Cmd {
	return s.prompt.Focus()
}

// Unmount abandons a review still in flight.
func (s *AssignmentScreen) Unmount() {
	s.cancel()
}

func (s *AssignmentScreen) Title() string {
	return "Assignment Helper"
}

func (s *AssignmentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Ctrl+R", Description: "Review draft"},
		{Key: "Esc", Description: "Dashboard"},
	}
}

func (s *AssignmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewDoneMsg:
		s.pending = false
		if msg.err != nil {
			s.logger.Warn("review failed", "error", msg.err)
			s.failed = true
			s.feedback = review.FailureText
			return s, nil
		}
		s.failed = false
		s.feedback = msg.feedback
		return s, screen.ProgressChanged()

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			return s, s.toggleFocus()
		case "ctrl+r":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == focusPrompt {
		s.prompt, cmd = s.prompt.Update(msg)
	} else {
		s.draft, cmd = s.draft.Update(msg)
	}
	return s, cmd
}

func (s *AssignmentScreen) toggleFocus() tea.Cmd {
	if s.focus == focusPrompt {
		s.focus = focusDraft
		s.prompt.Blur()
		return s.draft.Focus()
	}
	s.focus = focusPrompt
	s.draft.Blur()
	return s.prompt.Focus()
}

// submit starts a review. The button stays disabled until both fields
// have text and no review is pending.
func (s *AssignmentScreen) submit() tea.Cmd {
	if !s.ready() {
		return nil
	}
	s.pending = true
	ctx, rv := s.ctx, s.reviewer
	prompt, draft := s.prompt.Value(), s.draft.Value()
	return func() tea.Msg {
		feedback, err := rv.Review(ctx, prompt, draft)
		return reviewDoneMsg{feedback: feedback, err: err}
	}
}

func (s *AssignmentScreen) ready() bool {
	return !s.pending &&
		strings.TrimSpace(s.prompt.Value()) != "" &&
		strings.TrimSpace(s.draft.Value()) != ""
}

func (s *AssignmentScreen) View(width, height int) string {
	half := (width - 6) / 2
	s.prompt.SetWidth(half - 2)
	s.draft.SetWidth(half - 2)

	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	left := strings.Join([]string{
		label.Render("Assignment prompt"),
		s.prompt.View(),
		"",
		label.Render("Your draft"),
		s.draft.View(),
		"",
		components.NewButton("Review draft", "Ctrl+R", s.ready()).View(),
	}, "\n")

	var pane string
	switch {
	case s.pending:
		pane = theme.Hint.Render("Reviewing your draft...")
	case s.feedback == "":
		pane = theme.Hint.Render("Feedback appears here. I won't write it for you, but I'll help make it excellent.")
	case s.failed:
		pane = theme.Incorrect.Render(s.feedback)
	default:
		pane = theme.Body.Width(half - 4).Render(s.feedback)
	}
	right := theme.Card.Width(half).Height(max(height-4, 3)).Render(label.Render("Mentor feedback") + "\n\n" + pane)

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(half+2).Render(left), right),
	)
}
