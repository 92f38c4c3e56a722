package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/abhishaiv/AI-Study-Master/internal/llm"
)

// Reply is a model answer being streamed into the transcript. Cancel it
// when its consumer goes away.
type Reply struct {
	session *Session
	id      string
	stream  *llm.Stream
	openErr error

	mu        sync.Mutex
	text      strings.Builder
	done      bool
	cancelled bool
	err       error
	once      sync.Once
}

// ID returns the placeholder message id.
func (r *Reply) ID() string { return r.id }

// Next waits for the next fragment and applies the accumulated text to the
// placeholder. It returns false once the reply has ended.
func (r *Reply) Next(ctx context.Context) (Message, bool) {
	if r.openErr != nil {
		r.finish(r.openErr)
		return r.message(), false
	}
	if r.isDone() {
		return r.message(), false
	}

	select {
	case <-ctx.Done():
		r.Cancel()
		return r.message(), false
	case c, ok := <-r.stream.Chunks():
		if !ok {
			r.finish(nil)
			return r.message(), false
		}
		if c.Err != nil {
			r.finish(c.Err)
			return r.message(), false
		}
		r.mu.Lock()
		r.text.WriteString(c.Text)
		text := r.text.String()
		r.mu.Unlock()
		return r.session.setText(r.id, text), true
	}
}

// Cancel stops the stream and frees the session for the next message.
// The partial text stays in the transcript. Safe to call at any time.
func (r *Reply) Cancel() {
	r.mu.Lock()
	if !r.done {
		r.cancelled = true
	}
	r.mu.Unlock()
	r.finish(nil)
}

// Err returns the error that ended the reply, if any.
func (r *Reply) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Cancelled reports whether the reply was torn down before it ended.
func (r *Reply) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Text returns the text received so far.
func (r *Reply) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text.String()
}

func (r *Reply) isDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *Reply) message() Message {
	return Message{ID: r.id, Role: RoleModel, Text: r.Text()}
}

func (r *Reply) finish(err error) {
	r.once.Do(func() {
		if r.stream != nil {
			r.stream.Close()
		}
		r.mu.Lock()
		r.done = true
		r.err = err
		r.mu.Unlock()
		if err != nil {
			r.session.logger.Warn("chat reply failed", "error", err)
		}
		r.session.release(err)
	})
}
