package lessons

import "errors"

// FailureText is what views show when a lesson cannot be generated.
const FailureText = "Error loading content."

// ErrIncompleteLesson is returned when the generator's reply parses but
// lacks an overview or key concepts.
var ErrIncompleteLesson = errors.New("lesson is missing required content")

// Lesson is the generated study material for one topic.
type Lesson struct {
	TopicID     string       `json:"topicId"`
	Overview    string       `json:"overview"`
	KeyConcepts []KeyConcept `json:"keyConcepts"`
	CodeExample string       `json:"codeExample,omitempty"`
	Pitfalls    []string     `json:"pitfalls"`
	Checklist   []string     `json:"checklist"`
}

// KeyConcept is one titled explanation inside a lesson.
type KeyConcept struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HasCode reports whether the lesson carries a code example.
func (l *Lesson) HasCode() bool {
	return l.CodeExample != ""
}
