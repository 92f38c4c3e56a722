package llm

import "context"

// Purpose labels which study feature issued a request. It is recorded on
// every logged LLM event.
type Purpose string

const (
	PurposeLesson  Purpose = "lesson"
	PurposeQuiz    Purpose = "quiz"
	PurposeChat    Purpose = "chat"
	PurposeReview  Purpose = "review"
	PurposeUnknown Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx so provider middleware can attribute the call.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the feature that issued the call, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
