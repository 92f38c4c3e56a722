package llm

import (
	"context"
	"sync"
)

// Chunk is one streamed fragment. A chunk with Err set is the last one
// delivered before the channel closes.
type Chunk struct {
	Text string
	Err  error
}

// Stream is an in-flight streamed reply. Read Chunks until the channel is
// closed, or call Close to abandon the reply early.
type Stream struct {
	ch     chan Chunk
	cancel context.CancelFunc
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu    sync.Mutex
	usage Usage
}

// emitFunc delivers a fragment to the consumer. It reports false once the
// stream has been cancelled and the producer should return.
type emitFunc func(text string) bool

// produceFunc runs a provider stream to completion.
type produceFunc func(ctx context.Context, emit emitFunc) (Usage, error)

// startStream runs produce on its own goroutine. cancel must cancel ctx.
func startStream(ctx context.Context, cancel context.CancelFunc, produce produceFunc) *Stream {
	s := &Stream{
		ch:     make(chan Chunk),
		cancel: cancel,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.ch)
		defer cancel()

		emit := func(text string) bool {
			if text == "" {
				return ctx.Err() == nil
			}
			select {
			case s.ch <- Chunk{Text: text}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		usage, err := produce(ctx, emit)
		s.mu.Lock()
		s.usage = usage
		s.mu.Unlock()

		if err != nil {
			select {
			case s.ch <- Chunk{Err: err}:
			case <-s.stop:
			}
		}
	}()
	return s
}

// newStream derives a cancellable context from parent and starts produce.
func newStream(parent context.Context, produce produceFunc) *Stream {
	ctx, cancel := context.WithCancel(parent)
	return startStream(ctx, cancel, produce)
}

// Chunks returns the fragment channel. It is closed when the reply ends.
func (s *Stream) Chunks() <-chan Chunk {
	return s.ch
}

// Close cancels the underlying request and waits for the producer to exit.
// It is safe to call more than once and after the stream has ended.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.stop)
		s.cancel()
	})
	<-s.done
}

// Usage returns the token usage reported by the provider. It is only
// meaningful once the chunk channel has been closed.
func (s *Stream) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// Collect reads the whole stream and returns the concatenated text.
func (s *Stream) Collect(ctx context.Context) (string, error) {
	defer s.Close()
	var text []byte
	for {
		select {
		case <-ctx.Done():
			return string(text), ctx.Err()
		case c, ok := <-s.ch:
			if !ok {
				return string(text), nil
			}
			if c.Err != nil {
				return string(text), c.Err
			}
			text = append(text, c.Text...)
		}
	}
}

// relay forwards src to emit, calling onText for each fragment. It returns
// the first stream error, or the context error when cancelled.
func relay(ctx context.Context, src *Stream, emit emitFunc, onText func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-src.Chunks():
			if !ok {
				return nil
			}
			if c.Err != nil {
				return c.Err
			}
			onText(c.Text)
			if !emit(c.Text) {
				return ctx.Err()
			}
		}
	}
}
