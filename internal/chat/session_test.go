package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func newTestSession(t *testing.T, responses ...llm.MockResponse) (*Session, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	return NewSession(mock, catalog.Default(), WithIDs(seqIDs())), mock
}

func TestNewSession_Welcome(t *testing.T) {
	s, _ := newTestSession(t)
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleModel, msgs[0].Role)
	assert.Equal(t, WelcomeText, msgs[0].Text)
	assert.False(t, s.Busy())
}

func TestBegin_EmptyMessage(t *testing.T) {
	s, mock := newTestSession(t)
	_, err := s.Begin(context.Background(), "   \n")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, s.Messages(), 1)
	assert.Equal(t, 0, mock.CallCount())
}

func TestRelay_AccumulatesFragments(t *testing.T) {
	s, mock := newTestSession(t, llm.MockResponse{Chunks: []string{"RAG ", "retrieves ", "context."}})
	ctx := context.Background()

	r, err := s.Begin(ctx, "what is retrieval?")
	require.NoError(t, err)
	assert.True(t, s.Busy())

	var seen []string
	require.NoError(t, s.Relay(ctx, r, func(m Message) { seen = append(seen, m.Text) }))
	assert.Equal(t, []string{"RAG ", "RAG retrieves ", "RAG retrieves context."}, seen)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{ID: "m2", Role: RoleUser, Text: "what is retrieval?"}, msgs[1])
	assert.Equal(t, Message{ID: "m3", Role: RoleModel, Text: "RAG retrieves context."}, msgs[2])
	assert.False(t, s.Busy())
	assert.Equal(t, 1, mock.CallCount())
}

func TestBegin_HistoryAndRoles(t *testing.T) {
	s, mock := newTestSession(t,
		llm.MockResponse{Chunks: []string{"first"}},
		llm.MockResponse{Chunks: []string{"second"}},
	)
	ctx := context.Background()

	r, err := s.Begin(ctx, "one")
	require.NoError(t, err)
	require.NoError(t, s.Relay(ctx, r, nil))

	r, err = s.Begin(ctx, "two")
	require.NoError(t, err)
	require.NoError(t, s.Relay(ctx, r, nil))

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleAssistant, Content: WelcomeText},
		{Role: llm.RoleUser, Content: "one"},
		{Role: llm.RoleAssistant, Content: "first"},
		{Role: llm.RoleUser, Content: "two"},
	}, req.Messages)
}

func TestBegin_NoMatchCarriesNoContext(t *testing.T) {
	s, mock := newTestSession(t, llm.MockResponse{Chunks: []string{"ok"}})
	ctx := context.Background()

	r, err := s.Begin(ctx, "how do I cook pasta")
	require.NoError(t, err)
	require.NoError(t, s.Relay(ctx, r, nil))

	req, _ := mock.LastCall()
	assert.Equal(t, mentor.SystemInstruction, req.System)
}

func TestBegin_MatchInjectsContext(t *testing.T) {
	s, mock := newTestSession(t, llm.MockResponse{Chunks: []string{"ok"}})
	ctx := context.Background()

	r, err := s.Begin(ctx, "Explain Week 3: RAG Pipeline Implementation please")
	require.NoError(t, err)
	require.NoError(t, s.Relay(ctx, r, nil))

	topic, ok := catalog.Default().Lookup("week3-rag-basics")
	require.True(t, ok)
	req, _ := mock.LastCall()
	assert.Equal(t, mentor.System(topic.Context), req.System)
}

func TestBegin_BusyWhileStreaming(t *testing.T) {
	hold := make(chan struct{})
	s, _ := newTestSession(t, llm.MockResponse{Chunks: []string{"partial"}, Hold: hold})
	ctx := context.Background()

	r, err := s.Begin(ctx, "first")
	require.NoError(t, err)

	_, err = s.Begin(ctx, "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(hold)
	require.NoError(t, s.Relay(ctx, r, nil))
	assert.False(t, s.Busy())
}

func TestRelay_StreamErrorAppendsMessage(t *testing.T) {
	s, _ := newTestSession(t, llm.MockResponse{Chunks: []string{"half"}, Err: errors.New("connection reset")})
	ctx := context.Background()

	r, err := s.Begin(ctx, "hi")
	require.NoError(t, err)
	err = s.Relay(ctx, r, nil)
	assert.EqualError(t, err, "connection reset")

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "half", msgs[2].Text)
	assert.Equal(t, ErrorText, msgs[3].Text)
	assert.Equal(t, RoleModel, msgs[3].Role)
	assert.False(t, s.Busy())
}

func TestRelay_OpenErrorAppendsMessage(t *testing.T) {
	s, _ := newTestSession(t, llm.MockResponse{Err: &llm.ErrRateLimit{}})
	ctx := context.Background()

	r, err := s.Begin(ctx, "hi")
	require.NoError(t, err)
	err = s.Relay(ctx, r, nil)
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "", msgs[2].Text)
	assert.Equal(t, ErrorText, msgs[3].Text)

	// Empty placeholders are not replayed.
	s2, mock := newTestSession(t, llm.MockResponse{Err: errors.New("x")}, llm.MockResponse{Chunks: []string{"ok"}})
	r, _ = s2.Begin(ctx, "a")
	_ = s2.Relay(ctx, r, nil)
	r, _ = s2.Begin(ctx, "b")
	require.NoError(t, s2.Relay(ctx, r, nil))
	req, _ := mock.LastCall()
	for _, m := range req.Messages {
		assert.NotEmpty(t, m.Content)
	}
}

func TestReply_CancelReleasesSession(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	s, _ := newTestSession(t, llm.MockResponse{Chunks: []string{"partial"}, Hold: hold})
	ctx := context.Background()

	r, err := s.Begin(ctx, "hi")
	require.NoError(t, err)

	msg, ok := r.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, "partial", msg.Text)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Cancel()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel did not return")
	}

	assert.True(t, r.Cancelled())
	assert.NoError(t, r.Err())
	assert.False(t, s.Busy())
	_, ok = r.Next(ctx)
	assert.False(t, ok)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "partial", msgs[2].Text)
	for _, m := range msgs {
		assert.False(t, strings.Contains(m.Text, ErrorText))
	}
}

func TestRelay_ContextCancelStopsReply(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	s, _ := newTestSession(t, llm.MockResponse{Chunks: []string{"a"}, Hold: hold})

	ctx, cancel := context.WithCancel(context.Background())
	r, err := s.Begin(context.Background(), "hi")
	require.NoError(t, err)

	err = s.Relay(ctx, r, func(Message) { cancel() })
	assert.NoError(t, err)
	assert.True(t, r.Cancelled())
	assert.False(t, s.Busy())
}
