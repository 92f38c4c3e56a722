// Package review gives structured feedback on an assignment draft without
// writing the solution.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
)

const (
	// FallbackText is returned when the model replies with nothing.
	FallbackText = "Unable to generate review."

	// FailureText is what views show when a review request fails.
	FailureText = "Error generating feedback."
)

// ErrEmptyInput is returned when the prompt or the draft is blank.
var ErrEmptyInput = errors.New("review: assignment prompt and draft are both required")

// ActivityRecorder notes a completed review. progress.Store satisfies it.
type ActivityRecorder interface {
	RecordAssignmentReview(ctx context.Context, summary string) (*progress.UserProgress, error)
}

// Config controls the review request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the review defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 4096, Temperature: 0.3}
}

// Reviewer sends drafts to the provider.
type Reviewer struct {
	provider llm.Provider
	cfg      Config
	recorder ActivityRecorder
	logger   *logging.Logger
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithRecorder records an assignment activity after each successful review.
func WithRecorder(r ActivityRecorder) Option {
	return func(rv *Reviewer) { rv.recorder = r }
}

// WithLogger sets the reviewer logger.
func WithLogger(l *logging.Logger) Option {
	return func(rv *Reviewer) { rv.logger = l }
}

// NewReviewer creates a Reviewer.
func NewReviewer(provider llm.Provider, cfg Config, opts ...Option) *Reviewer {
	rv := &Reviewer{provider: provider, cfg: cfg, logger: logging.Nop()}
	for _, opt := range opts {
		opt(rv)
	}
	return rv
}

// Review returns Markdown feedback for draft against the assignment prompt.
func (rv *Reviewer) Review(ctx context.Context, prompt, draft string) (string, error) {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(draft) == "" {
		return "", ErrEmptyInput
	}

	resp, err := rv.provider.Generate(llm.WithPurpose(ctx, llm.PurposeReview), llm.Request{
		System:      mentor.SystemInstruction,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildReviewMessage(prompt, draft)}},
		MaxTokens:   rv.cfg.MaxTokens,
		Temperature: rv.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("reviewing draft: %w", err)
	}

	feedback := strings.TrimSpace(resp.Text())
	if feedback == "" {
		feedback = FallbackText
	}

	if rv.recorder != nil {
		if _, err := rv.recorder.RecordAssignmentReview(ctx, prompt); err != nil {
			rv.logger.Warn("recording review activity", "error", err)
		}
	}
	return feedback, nil
}

func buildReviewMessage(prompt, draft string) string {
	var b strings.Builder
	b.WriteString("Task: Review this student assignment submission.\n\n")
	b.WriteString("Assignment Prompt:\n")
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteString("\n\nStudent Draft:\n")
	b.WriteString(strings.TrimSpace(draft))
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("1. Identify logical errors or security risks (e.g., in code).\n")
	b.WriteString("2. Suggest structural improvements.\n")
	b.WriteString("3. DO NOT write the corrected code/text for them.\n")
	b.WriteString("4. Provide feedback in a structured Markdown format.\n")
	return b.String()
}
