// Package quiz walks a generated question set, scores answers and commits
// the result to progress exactly once.
package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
)

// FailureText is what views show when the question set cannot be generated.
const FailureText = "Could not generate a quiz for this topic. Please try again later."

var (
	// ErrNoSelection is returned by Submit when no option is selected.
	ErrNoSelection = errors.New("quiz: no option selected")

	// ErrAlreadyAnswered is returned when the current question was submitted.
	ErrAlreadyAnswered = errors.New("quiz: question already answered")

	// ErrNotAnswered is returned by Advance before the question is submitted.
	ErrNotAnswered = errors.New("quiz: question not answered yet")

	// ErrOptionRange is returned by Select for an index outside the options.
	ErrOptionRange = errors.New("quiz: option out of range")

	// ErrNotInProgress is returned for moves outside the in-progress phase.
	ErrNotInProgress = errors.New("quiz: not in progress")
)

// Phase is the runner's state.
type Phase int

const (
	PhaseLoading    Phase = iota // waiting for the question set
	PhaseInProgress              // answering questions
	PhaseResults                 // finished, result committed
	PhaseFailed                  // generation failed, terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in_progress"
	case PhaseResults:
		return "results"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResultRecorder receives the finished quiz. progress.Store satisfies it.
type ResultRecorder interface {
	RecordQuizResult(ctx context.Context, r progress.QuizResult) (*progress.UserProgress, error)
}

// Answer records what was submitted for one question.
type Answer struct {
	Selected int
	Correct  bool
}

// Runner is the quiz state machine. It is not safe for concurrent use.
type Runner struct {
	topicID  string
	recorder ResultRecorder
	now      func() time.Time

	phase     Phase
	questions []quizgen.Question
	index     int
	selection int // -1 when nothing is selected
	answered  bool
	score     int
	answers   []Answer

	err       error
	committed bool
	commitErr error
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner in the Loading phase.
func NewRunner(topicID string, recorder ResultRecorder, opts ...Option) *Runner {
	r := &Runner{
		topicID:   topicID,
		recorder:  recorder,
		now:       time.Now,
		selection: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load delivers the generation outcome. An error or an empty set moves the
// runner to Failed. Calls after the first are ignored.
func (r *Runner) Load(questions []quizgen.Question, err error) {
	if r.phase != PhaseLoading {
		return
	}
	switch {
	case err != nil:
		r.phase = PhaseFailed
		r.err = err
	case len(questions) == 0:
		r.phase = PhaseFailed
		r.err = quizgen.ErrEmptyQuiz
	default:
		r.questions = questions
		r.answers = make([]Answer, len(questions))
		r.phase = PhaseInProgress
	}
}

// Select marks option i as the pending choice. It can be changed freely
// until the question is submitted.
func (r *Runner) Select(i int) error {
	if r.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if r.answered {
		return ErrAlreadyAnswered
	}
	if i < 0 || i >= len(r.questions[r.index].Options) {
		return ErrOptionRange
	}
	r.selection = i
	return nil
}

// Submit locks in the selection and scores it. It reports whether the
// answer was correct. Errors leave the state unchanged.
func (r *Runner) Submit() (bool, error) {
	if r.phase != PhaseInProgress {
		return false, ErrNotInProgress
	}
	if r.answered {
		return false, ErrAlreadyAnswered
	}
	if r.selection < 0 {
		return false, ErrNoSelection
	}

	correct := r.questions[r.index].IsCorrect(r.selection)
	r.answered = true
	r.answers[r.index] = Answer{Selected: r.selection, Correct: correct}
	if correct {
		r.score++
	}
	return correct, nil
}

// Advance moves to the next question, or to Results after the last one,
// committing the result. A commit failure is kept in CommitErr; the runner
// still reaches Results.
func (r *Runner) Advance(ctx context.Context) error {
	if r.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if !r.answered {
		return ErrNotAnswered
	}

	if r.index+1 < len(r.questions) {
		r.index++
		r.selection = -1
		r.answered = false
		return nil
	}

	r.phase = PhaseResults
	r.commit(ctx)
	return nil
}

func (r *Runner) commit(ctx context.Context) {
	if r.committed || r.recorder == nil {
		return
	}
	r.committed = true
	_, r.commitErr = r.recorder.RecordQuizResult(ctx, r.Result())
}

// Result is the quiz outcome. The score counts only submitted answers.
func (r *Runner) Result() progress.QuizResult {
	return progress.QuizResult{
		TopicID:        r.topicID,
		Score:          r.score,
		TotalQuestions: len(r.questions),
		CompletedAt:    r.now(),
	}
}

// TopicID returns the topic being quizzed.
func (r *Runner) TopicID() string { return r.topicID }

// Phase returns the current phase.
func (r *Runner) Phase() Phase { return r.phase }

// Err returns the generation failure in the Failed phase.
func (r *Runner) Err() error { return r.err }

// CommitErr returns the error from recording the result, if any.
func (r *Runner) CommitErr() error { return r.commitErr }

// Total returns the number of questions.
func (r *Runner) Total() int { return len(r.questions) }

// Index returns the zero-based index of the current question.
func (r *Runner) Index() int { return r.index }

// Score returns the running score.
func (r *Runner) Score() int { return r.score }

// Answered reports whether the current question has been submitted.
func (r *Runner) Answered() bool { return r.answered }

// IsLast reports whether the current question is the final one.
func (r *Runner) IsLast() bool { return r.index == len(r.questions)-1 }

// Current returns the question being answered.
func (r *Runner) Current() (quizgen.Question, bool) {
	if r.phase != PhaseInProgress {
		return quizgen.Question{}, false
	}
	return r.questions[r.index], true
}

// Selection returns the pending or submitted option.
func (r *Runner) Selection() (int, bool) {
	return r.selection, r.selection >= 0
}

// Answers returns the submitted answers so far, indexed by question.
func (r *Runner) Answers() []Answer {
	return append([]Answer(nil), r.answers...)
}

// Percentage returns round(100 * score / total).
func (r *Runner) Percentage() (int, error) {
	return progress.Percentage(r.score, len(r.questions))
}
