package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_StreamFragments(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"Re", "trie", "val"}})

	stream, err := mock.Stream(context.Background(), Request{})
	require.NoError(t, err)

	var got []string
	for c := range stream.Chunks() {
		require.NoError(t, c.Err)
		got = append(got, c.Text)
	}
	assert.Equal(t, []string{"Re", "trie", "val"}, got)
}

func TestMockProvider_StreamContentFallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("plain reply")})

	stream, err := mock.Stream(context.Background(), Request{})
	require.NoError(t, err)
	text, err := stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plain reply", text)
}

func TestMockProvider_StreamOpenError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Stream(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestStream_MidStreamError(t *testing.T) {
	boom := errors.New("connection reset")
	mock := NewMockProvider(MockResponse{Chunks: []string{"partial"}, Err: boom})

	stream, err := mock.Stream(context.Background(), Request{})
	require.NoError(t, err)

	text, err := stream.Collect(context.Background())
	assert.Equal(t, "partial", text)
	assert.ErrorIs(t, err, boom)
}

func TestStream_CloseCancelsProducer(t *testing.T) {
	hold := make(chan struct{})
	mock := NewMockProvider(MockResponse{Chunks: []string{"first"}, Hold: hold})

	stream, err := mock.Stream(context.Background(), Request{})
	require.NoError(t, err)

	c := <-stream.Chunks()
	assert.Equal(t, "first", c.Text)

	done := make(chan struct{})
	go func() {
		stream.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	// Channel is closed and carries no error after an explicit Close.
	for c := range stream.Chunks() {
		t.Fatalf("unexpected chunk after close: %+v", c)
	}
	stream.Close()
}

func TestStream_CloseWithUnreadFragments(t *testing.T) {
	mock := NewMockProvider(MockResponse{Chunks: []string{"a", "b", "c"}})
	stream, err := mock.Stream(context.Background(), Request{})
	require.NoError(t, err)

	// Nobody reads; Close must still unblock the producer.
	stream.Close()
}

func TestStream_ParentContextCancel(t *testing.T) {
	hold := make(chan struct{})
	mock := NewMockProvider(MockResponse{Chunks: []string{"x"}, Hold: hold})

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := mock.Stream(ctx, Request{})
	require.NoError(t, err)
	<-stream.Chunks()
	cancel()

	var last Chunk
	for c := range stream.Chunks() {
		last = c
	}
	assert.ErrorIs(t, last.Err, context.Canceled)
	stream.Close()
}

func TestRetry_StreamNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Chunks: []string{"never"}},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Stream(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestTimeout_GenerateDeadline(t *testing.T) {
	p := WithTimeout(&slowProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeout_ZeroIsPassthrough(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}

type slowProvider struct{}

func (s *slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowProvider) Stream(ctx context.Context, _ Request) (*Stream, error) {
	return nil, errors.New("not implemented")
}

func (s *slowProvider) ModelID() string { return "slow" }
