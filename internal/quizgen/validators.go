package quizgen

import (
	"fmt"
	"strings"
)

const (
	minOptions = 2
	maxOptions = 6
)

// CountValidator requires exactly the requested number of questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []Question, input GenerateInput) *ValidationError {
	if len(qs) == 0 {
		return &ValidationError{Validator: v.Name(), Message: ErrEmptyQuiz.Error()}
	}
	if input.Count > 0 && len(qs) != input.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d questions, got %d", input.Count, len(qs)),
		}
	}
	return nil
}

// StructuralValidator checks that every question is answerable: text and
// explanation present, 2..6 non-blank options, correct index in range.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, _ GenerateInput) *ValidationError {
	for i, q := range qs {
		fail := func(msg string) *ValidationError {
			return &ValidationError{Validator: v.Name(), Message: msg, Question: i + 1}
		}
		if strings.TrimSpace(q.Text) == "" {
			return fail("question text is empty")
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return fail("explanation is empty")
		}
		if len(q.Options) < minOptions || len(q.Options) > maxOptions {
			return fail(fmt.Sprintf("has %d options, want %d-%d", len(q.Options), minOptions, maxOptions))
		}
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return fail("has a blank option")
			}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fail(fmt.Sprintf("correct option index %d out of range", q.CorrectIndex))
		}
	}
	return nil
}

// DuplicateValidator rejects repeated questions and repeated options
// within a question. Comparison ignores case and surrounding space.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(qs []Question, _ GenerateInput) *ValidationError {
	seen := make(map[string]int, len(qs))
	for i, q := range qs {
		key := normalize(q.Text)
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("repeats question %d", prev),
				Question:  i + 1,
			}
		}
		seen[key] = i + 1

		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			k := normalize(o)
			if opts[k] {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("option %q appears twice", o),
					Question:  i + 1,
				}
			}
			opts[k] = true
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
