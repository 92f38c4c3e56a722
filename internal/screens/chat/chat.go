// Package chat is the streaming mentor chat view.
package chat

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	chatsess "github.com/abhishaiv/AI-Study-Master/internal/chat"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/components"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/layout"
	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// fragmentMsg reports that a reply grew or ended.
type fragmentMsg struct {
	replyID string
	more    bool
}

// ChatScreen shows the transcript and an input line. The input is disabled
// while a reply streams.
type ChatScreen struct {
	session *chatsess.Session
	input   components.TextInput
	reply   *chatsess.Reply
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.Unmounter = (*ChatScreen)(nil)

// New creates a chat screen over a fresh session.
func New(session *chatsess.Session) *ChatScreen {
	return &ChatScreen{
		session: session,
		input:   components.NewTextInput("Ask about a topic, or paste an error...", 2000),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

// Unmount cancels a reply that is still streaming.
func (s *ChatScreen) Unmount() {
	if s.reply != nil {
		s.reply.Cancel()
		s.reply = nil
	}
}

func (s *ChatScreen) Title() string {
	return "Mentor Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.reply != nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Stop and leave"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Dashboard"},
	}
}

// Streaming reports whether a reply is in flight.
func (s *ChatScreen) Streaming() bool {
	return s.reply != nil
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fragmentMsg:
		if s.reply == nil || msg.replyID != s.reply.ID() {
			return s, nil
		}
		if msg.more {
			return s, waitFragment(s.reply)
		}
		s.reply = nil
		s.input.SetDisabled(false)
		return s, s.input.Init()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	if s.reply != nil {
		return nil
	}
	reply, err := s.session.Begin(context.Background(), s.input.Value())
	if err != nil {
		return nil
	}
	s.reply = reply
	s.input.Reset()
	s.input.SetDisabled(true)
	return waitFragment(reply)
}

func waitFragment(r *chatsess.Reply) tea.Cmd {
	return func() tea.Msg {
		_, more := r.Next(context.Background())
		return fragmentMsg{replyID: r.ID(), more: more}
	}
}

func (s *ChatScreen) View(width, height int) string {
	inner := width - 4
	input := lipgloss.NewStyle().
		Width(inner).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(s.input.View())

	available := max(height-lipgloss.Height(input)-1, 1)
	transcript := renderTranscript(s.session.Messages(), inner-2)
	lines := strings.Split(transcript, "\n")
	if len(lines) > available {
		lines = lines[len(lines)-available:]
	}

	body := lipgloss.NewStyle().Width(inner).Height(available).Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().Padding(0, 2).Render(body + "\n" + input)
}

func renderTranscript(msgs []chatsess.Message, width int) string {
	userLabel := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("You")
	mentorLabel := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Mentor")
	body := theme.Body.Width(width)

	var parts []string
	for _, m := range msgs {
		label := mentorLabel
		if m.Role == chatsess.RoleUser {
			label = userLabel
		}
		text := m.Text
		if text == "" {
			text = theme.Hint.Render("thinking...")
		}
		parts = append(parts, label+"\n"+body.Render(text))
	}
	return strings.Join(parts, "\n\n")
}
