// Package quiz is the interactive quiz view. It drives a quiz Runner from key presses.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	quizrun "github.com/abhishaiv/AI-Study-Master/internal/quiz"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/components"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// questionsLoadedMsg carries the generated question set.
type questionsLoadedMsg struct {
	topicID   string
	questions []quizgen.Question
	err       error
}

// QuizScreen renders one quiz attempt.
type QuizScreen struct {
	topic     catalog.Topic
	generator quizgen.Generator
	runner    *quizrun.Runner
	logger    *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	hint   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Unmounter = (*QuizScreen)(nil)

// New creates a quiz screen. Results are committed through recorder.
func New(t catalog.Topic, gen quizgen.Generator, recorder quizrun.ResultRecorder, logger *logging.Logger, opts ...quizrun.Option) *QuizScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{
		topic:     t,
		generator: gen,
		runner:    quizrun.NewRunner(t.ID, recorder, opts...),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	ctx, t, gen := s.ctx, s.topic, s.generator
	return func() tea.Msg {
		qs, err := gen.Generate(ctx, t)
		return questionsLoadedMsg{topicID: t.ID, questions: qs, err: err}
	}
}

// Unmount abandons a question set still being generated.
func (s *QuizScreen) Unmount() {
	s.cancel()
}

// Runner exposes the underlying state machine.
func (s *QuizScreen) Runner() *quizrun.Runner {
	return s.runner
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.topic.Title
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.runner.Phase() {
	case quizrun.PhaseInProgress:
		if s.runner.Answered() {
			label := "Next question"
			if s.runner.IsLast() {
				label = "Finish"
			}
			return []layout.KeyHint{{Key: "Enter", Description: label}, {Key: "Esc", Description: "Dashboard"}}
		}
		return []layout.KeyHint{
			{Key: "1-" + strconv.Itoa(s.optionCount()), Description: "Choose"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Dashboard"},
		}
	case quizrun.PhaseResults:
		return []layout.KeyHint{{Key: "Enter", Description: "Dashboard"}, {Key: "T", Description: "Back to topic"}}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Dashboard"}}
	}
}

func (s *QuizScreen) optionCount() int {
	q, _ := s.runner.Current()
	return len(q.Options)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		if msg.topicID != s.topic.ID {
			return s, nil
		}
		s.runner.Load(msg.questions, msg.err)
		if err := s.runner.Err(); err != nil {
			s.logger.Warn("quiz generation failed", "topic", s.topic.ID, "error", err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.runner.Phase() {
	case quizrun.PhaseResults:
		switch key {
		case "enter":
			return s, router.Navigate(router.ViewDashboard, "")
		case "t":
			return s, router.Navigate(router.ViewTopic, s.topic.ID)
		}
		return s, nil
	case quizrun.PhaseFailed:
		if key == "enter" {
			return s, router.Navigate(router.ViewDashboard, "")
		}
		return s, nil
	case quizrun.PhaseLoading:
		return s, nil
	}

	s.hint = ""
	switch key {
	case "up", "k":
		if sel, ok := s.runner.Selection(); ok && sel > 0 {
			_ = s.runner.Select(sel - 1)
		} else if !ok {
			_ = s.runner.Select(0)
		}
	case "down", "j":
		sel, ok := s.runner.Selection()
		if !ok {
			sel = -1
		}
		_ = s.runner.Select(sel + 1)
	case "enter":
		if !s.runner.Answered() {
			if _, err := s.runner.Submit(); errors.Is(err, quizrun.ErrNoSelection) {
				s.hint = "Pick an option first."
			}
			return s, nil
		}
		if err := s.runner.Advance(context.Background()); err != nil {
			return s, nil
		}
		if s.runner.Phase() == quizrun.PhaseResults {
			if err := s.runner.CommitErr(); err != nil {
				s.logger.Error("saving quiz result", "topic", s.topic.ID, "error", err)
				return s, nil
			}
			return s, screen.ProgressChanged()
		}
	default:
		if n, err := strconv.Atoi(key); err == nil {
			_ = s.runner.Select(n - 1)
		}
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2)
	center := style.Align(lipgloss.Center, lipgloss.Center)

	switch s.runner.Phase() {
	case quizrun.PhaseLoading:
		return center.Foreground(theme.TextDim).Render("Generating quiz questions...")
	case quizrun.PhaseFailed:
		return center.Foreground(theme.Error).Render(quizrun.FailureText)
	case quizrun.PhaseResults:
		return center.Render(s.renderResults())
	}
	return style.Render(s.renderQuestion(width - 6))
}

func (s *QuizScreen) renderQuestion(width int) string {
	q, _ := s.runner.Current()

	var b strings.Builder
	progressLine := fmt.Sprintf("Question %d of %d", s.runner.Index()+1, s.runner.Total())
	scoreLine := fmt.Sprintf("Score: %d", s.runner.Score())
	gap := max(width-lipgloss.Width(progressLine)-lipgloss.Width(scoreLine), 1)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(progressLine))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(scoreLine))
	b.WriteString("\n")

	bar := components.NewProgressBar("", float64(s.runner.Index())/float64(max(s.runner.Total(), 1)), false, width)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	mc := components.NewMultiChoice(q.Text, q.Options)
	mc.Width = width
	if sel, ok := s.runner.Selection(); ok {
		mc.Selected = sel
	}
	mc.Submitted = s.runner.Answered()
	mc.CorrectIndex = q.CorrectIndex
	b.WriteString(mc.View())

	if s.runner.Answered() {
		b.WriteString("\n")
		verdict := theme.Incorrect.Render("Not quite.")
		if s.runner.Answers()[s.runner.Index()].Correct {
			verdict = theme.Correct.Render("Correct!")
		}
		b.WriteString(verdict)
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(width).Render(q.Explanation))
		b.WriteString("\n")
	}
	if s.hint != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.hint))
	}
	return b.String()
}

func (s *QuizScreen) renderResults() string {
	pct, _ := s.runner.Percentage()
	style := theme.Weak
	switch {
	case pct >= 80:
		style = theme.Strong
	case pct >= 50:
		style = theme.Fair
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(style.Render(fmt.Sprintf("%d%%", pct)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("You answered %d of %d correctly.", s.runner.Score(), s.runner.Total())))
	if err := s.runner.CommitErr(); err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Your score could not be saved."))
	}
	return b.String()
}
