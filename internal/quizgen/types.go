package quizgen

import (
	"errors"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
)

// ErrEmptyQuiz is returned when the generator produced no questions.
var ErrEmptyQuiz = errors.New("quiz has no questions")

// Question is one multiple-choice quiz question. Exactly one option, at
// CorrectIndex, is correct.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctOptionIndex"`
	Explanation  string   `json:"explanation"`
}

// IsCorrect reports whether option i is the correct one.
func (q Question) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// GenerateInput holds the context for one quiz request.
type GenerateInput struct {
	Topic catalog.Topic
	Count int
}
