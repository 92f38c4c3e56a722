package llm

import (
	"context"
	"errors"
	"testing"
)

func TestOffline(t *testing.T) {
	cause := errors.New("no api key")
	p := Offline(cause)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be wrapped")
	}

	if _, err := p.Stream(context.Background(), Request{}); !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable from Stream, got %T", err)
	}
	if p.ModelID() != "offline" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}
