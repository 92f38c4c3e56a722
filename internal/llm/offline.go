package llm

import "context"

// offlineProvider answers every call with ErrProviderUnavailable. It stands
// in when no provider is configured so the views can still open and show
// their failure text.
type offlineProvider struct {
	cause error
}

// Offline returns a Provider that always fails with cause wrapped in
// ErrProviderUnavailable.
func Offline(cause error) Provider {
	return &offlineProvider{cause: cause}
}

func (p *offlineProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: p.cause}
}

func (p *offlineProvider) Stream(context.Context, Request) (*Stream, error) {
	return nil, &ErrProviderUnavailable{Err: p.cause}
}

func (p *offlineProvider) ModelID() string {
	return "offline"
}
