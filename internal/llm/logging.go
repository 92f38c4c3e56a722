package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

// LoggingProvider is a decorator that records every request, blocking or
// streamed, as an event and a structured log line.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *logging.Logger
}

// WithLogging wraps a Provider with event logging. A nil repo skips the
// audit log; a nil logger discards log lines.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *logging.Logger) Provider {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := l.eventData(ctx, req, start, err)
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	l.record(context.WithoutCancel(ctx), data)

	return resp, err
}

// Stream relays the inner stream and records one event when it ends,
// including streams the consumer abandons.
func (l *LoggingProvider) Stream(ctx context.Context, req Request) (*Stream, error) {
	start := time.Now()

	inner, err := l.inner.Stream(ctx, req)
	if err != nil {
		data := l.eventData(ctx, req, start, err)
		data.Streamed = true
		l.record(context.WithoutCancel(ctx), data)
		return nil, err
	}

	return newStream(ctx, func(sctx context.Context, emit emitFunc) (Usage, error) {
		var text strings.Builder
		streamErr := relay(sctx, inner, emit, func(s string) { text.WriteString(s) })
		inner.Close()
		usage := inner.Usage()

		data := l.eventData(ctx, req, start, streamErr)
		data.Streamed = true
		data.InputTokens = usage.InputTokens
		data.OutputTokens = usage.OutputTokens
		data.ResponseBody = text.String()
		l.record(context.WithoutCancel(ctx), data)

		return usage, streamErr
	}), nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) eventData(ctx context.Context, req Request, start time.Time, err error) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

// record logs the event but never fails the request if logging fails.
func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	kv := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"streamed", data.Streamed,
	}
	if data.Success {
		l.logger.Info("llm request", kv...)
	} else {
		l.logger.Warn("llm request failed", append(kv, "error", data.ErrorMessage)...)
	}

	if l.eventRepo == nil {
		return
	}
	if err := l.eventRepo.AppendLLMRequest(ctx, data); err != nil {
		l.logger.Warn("failed to log LLM request event", "error", err)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
