// Package chat runs the mentor conversation: an ordered transcript whose
// model replies stream in fragment by fragment.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
)

const (
	// WelcomeText opens every transcript.
	WelcomeText = "Hello! I'm your AI mentor. I can help you catch up on 100x Engineers topics. What are you stuck on today?"

	// ErrorText is appended when a reply cannot be streamed.
	ErrorText = "Sorry, I encountered an error connecting to the model."

	maxTokens   = 2048
	temperature = 0.7
)

var (
	// ErrEmptyMessage is returned by Begin for blank input.
	ErrEmptyMessage = errors.New("chat: message is empty")

	// ErrBusy is returned by Begin while a reply is still streaming.
	ErrBusy = errors.New("chat: a reply is already in progress")
)

// Role identifies who wrote a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one transcript entry.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session holds one conversation. Only one reply streams at a time.
type Session struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	logger   *logging.Logger
	newID    func() string

	mu       sync.Mutex
	messages []Message
	busy     bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDs overrides message id generation.
func WithIDs(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// NewSession starts a transcript seeded with the welcome message.
func NewSession(provider llm.Provider, c *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		provider: provider,
		catalog:  c,
		logger:   logging.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{{ID: s.newID(), Role: RoleModel, Text: WelcomeText}}
	return s
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Busy reports whether a reply is streaming.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Begin appends the user message and an empty model placeholder, then opens
// the reply stream. Failures to open are reported through the Reply so the
// transcript always ends the same way.
func (s *Session) Begin(ctx context.Context, text string) (*Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	history := s.historyLocked()
	user := Message{ID: s.newID(), Role: RoleUser, Text: text}
	placeholder := Message{ID: s.newID(), Role: RoleModel}
	s.messages = append(s.messages, user, placeholder)
	s.busy = true
	s.mu.Unlock()

	var context string
	if topic, ok := s.catalog.MatchContext(text); ok {
		context = topic.Context
		s.logger.Debug("chat context matched", "topic", topic.ID)
	}

	req := llm.Request{
		System:      mentor.System(context),
		Messages:    append(history, llm.Message{Role: llm.RoleUser, Content: text}),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	r := &Reply{session: s, id: placeholder.ID}
	stream, err := s.provider.Stream(llm.WithPurpose(ctx, llm.PurposeChat), req)
	if err != nil {
		r.openErr = err
		return r, nil
	}
	r.stream = stream
	return r, nil
}

// historyLocked maps the transcript to provider messages, skipping empty
// placeholders. Callers hold s.mu.
func (s *Session) historyLocked() []llm.Message {
	out := make([]llm.Message, 0, len(s.messages)+1)
	for _, m := range s.messages {
		if m.Text == "" {
			continue
		}
		role := llm.RoleUser
		if m.Role == RoleModel {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}

func (s *Session) setText(id, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Text = text
			return s.messages[i]
		}
	}
	return Message{ID: id, Role: RoleModel, Text: text}
}

func (s *Session) release(failed error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if failed != nil {
		s.messages = append(s.messages, Message{ID: s.newID(), Role: RoleModel, Text: ErrorText})
	}
	s.busy = false
}

// Relay drives r to completion, calling onUpdate with the placeholder each
// time its text grows. It returns the stream error, if any.
func (s *Session) Relay(ctx context.Context, r *Reply, onUpdate func(Message)) error {
	for {
		msg, ok := r.Next(ctx)
		if !ok {
			return r.Err()
		}
		if onUpdate != nil {
			onUpdate(msg)
		}
	}
}
