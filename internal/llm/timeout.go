package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds blocking requests with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so Generate fails after d. A zero d returns p.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

// Stream is not bounded; chat replies end when the reply does or the
// caller closes the stream.
func (t *TimeoutProvider) Stream(ctx context.Context, req Request) (*Stream, error) {
	return t.inner.Stream(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
