// Package topic shows the generated lesson for one course topic.
package topic

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// LessonSource generates lessons. lessons.Service satisfies it.
type LessonSource interface {
	Generate(ctx context.Context, t catalog.Topic) (*lessons.Lesson, error)
}

// lessonLoadedMsg carries the generation outcome.
type lessonLoadedMsg struct {
	topicID string
	lesson  *lessons.Lesson
	err     error
}

// TopicScreen renders a lesson with scrolling.
type TopicScreen struct {
	topic    catalog.Topic
	lessons  LessonSource
	progress *progress.Store
	logger   *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	lesson  *lessons.Lesson
	failed  bool
	loading bool
	offset  int
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)
var _ screen.Unmounter = (*TopicScreen)(nil)

// New creates the topic screen. Generation starts in Init.
func New(t catalog.Topic, src LessonSource, st *progress.Store, logger *logging.Logger) *TopicScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &TopicScreen{
		topic:    t,
		lessons:  src,
		progress: st,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		loading:  true,
	}
}

func (s *TopicScreen) Init() tea.Cmd {
	ctx, t, src := s.ctx, s.topic, s.lessons
	return func() tea.Msg {
		l, err := src.Generate(ctx, t)
		return lessonLoadedMsg{topicID: t.ID, lesson: l, err: err}
	}
}

// Unmount abandons a lesson still being generated.
func (s *TopicScreen) Unmount() {
	s.cancel()
}

func (s *TopicScreen) Title() string {
	return s.topic.Title
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Dashboard"}}
	if s.lesson != nil {
		hints = append([]layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Q", Description: "Take quiz"},
			{Key: "C", Description: "Ask mentor"},
		}, hints...)
	}
	return hints
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonLoadedMsg:
		if msg.topicID != s.topic.ID {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.failed = true
			s.logger.Warn("lesson generation failed", "topic", s.topic.ID, "error", msg.err)
			return s, nil
		}
		s.lesson = msg.lesson
		if _, err := s.progress.MarkTopicStudied(context.Background(), s.topic.ID); err != nil {
			s.logger.Warn("marking topic studied", "topic", s.topic.ID, "error", err)
			return s, nil
		}
		return s, screen.ProgressChanged()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "pgup":
			s.offset = max(0, s.offset-10)
		case "pgdown", "space":
			s.offset += 10
		case "q":
			if s.lesson != nil {
				return s, router.Navigate(router.ViewQuiz, s.topic.ID)
			}
		case "c":
			if s.lesson != nil {
				return s, router.Navigate(router.ViewChat, "")
			}
		}
	}
	return s, nil
}

func (s *TopicScreen) View(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2)

	switch {
	case s.loading:
		return style.Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Preparing your lesson on %s...", s.topic.Title))
	case s.failed:
		return style.Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.Error).
			Render(lessons.FailureText)
	}

	lines := strings.Split(renderLesson(s.topic, s.lesson, width-6), "\n")
	visible := max(height-2, 1)
	maxOffset := max(len(lines)-visible, 0)
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := min(s.offset+visible, len(lines))
	return style.Render(strings.Join(lines[s.offset:end], "\n"))
}

func renderLesson(t catalog.Topic, l *lessons.Lesson, width int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	body := theme.Body.Width(width)

	var b strings.Builder
	b.WriteString(heading.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(string(t.Category) + " · " + t.Description))
	b.WriteString("\n\n")

	b.WriteString(sub.Render("Overview"))
	b.WriteString("\n")
	b.WriteString(body.Render(l.Overview))
	b.WriteString("\n\n")

	b.WriteString(sub.Render("Key concepts"))
	b.WriteString("\n")
	for _, kc := range l.KeyConcepts {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("• " + kc.Title))
		b.WriteString("\n")
		b.WriteString(body.PaddingLeft(2).Render(kc.Content))
		b.WriteString("\n")
	}

	if l.HasCode() {
		b.WriteString("\n")
		b.WriteString(sub.Render("Code example"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Text).
			Background(theme.BgCard).
			Padding(0, 1).
			Render(l.CodeExample))
		b.WriteString("\n")
	}

	writeList(&b, sub.Render("Common pitfalls"), l.Pitfalls, "! ", theme.Incorrect)
	writeList(&b, sub.Render("Checklist"), l.Checklist, "□ ", theme.Correct)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string, bullet string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(style.Render(bullet))
		b.WriteString(theme.Body.Render(it))
		b.WriteString("\n")
	}
}
