package progress

import (
	"errors"
	"slices"
	"time"
)

// MaxActivity caps the recent activity log.
const MaxActivity = 20

var (
	// ErrNoQuestions is returned when a score is computed over zero questions.
	ErrNoQuestions = errors.New("progress: quiz has no questions")

	// ErrInvalidScore is returned when a score falls outside 0..total.
	ErrInvalidScore = errors.New("progress: score out of range")
)

// ActivityKind classifies an activity log entry.
type ActivityKind string

const (
	KindQuiz       ActivityKind = "quiz"
	KindStudy      ActivityKind = "study"
	KindAssignment ActivityKind = "assignment"
)

// Activity is one entry in the newest-first activity log.
type Activity struct {
	Kind      ActivityKind `json:"type"`
	TopicID   string       `json:"topicId,omitempty"`
	Timestamp int64        `json:"timestamp"` // unix millis
	Details   string       `json:"details"`
}

// Time returns the entry timestamp as a time.Time.
func (a Activity) Time() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// UserProgress is the single persisted progress document.
type UserProgress struct {
	CompletedTopics []string       `json:"completedTopics"`
	QuizScores      map[string]int `json:"quizScores"`
	RecentActivity  []Activity     `json:"recentActivity"`
}

// Default returns empty progress.
func Default() *UserProgress {
	return &UserProgress{
		CompletedTopics: []string{},
		QuizScores:      map[string]int{},
		RecentActivity:  []Activity{},
	}
}

// HasCompleted reports whether the topic has been studied.
func (p *UserProgress) HasCompleted(topicID string) bool {
	return slices.Contains(p.CompletedTopics, topicID)
}

// BestScore returns the best quiz percentage for a topic.
func (p *UserProgress) BestScore(topicID string) (int, bool) {
	s, ok := p.QuizScores[topicID]
	return s, ok
}

// pushActivity prepends a and evicts the oldest entries past MaxActivity.
func (p *UserProgress) pushActivity(a Activity) {
	p.RecentActivity = append([]Activity{a}, p.RecentActivity...)
	if len(p.RecentActivity) > MaxActivity {
		p.RecentActivity = p.RecentActivity[:MaxActivity]
	}
}

func (p *UserProgress) normalize() {
	if p.CompletedTopics == nil {
		p.CompletedTopics = []string{}
	}
	if p.QuizScores == nil {
		p.QuizScores = map[string]int{}
	}
	if p.RecentActivity == nil {
		p.RecentActivity = []Activity{}
	}
}

// QuizResult is the outcome of one finished quiz attempt.
type QuizResult struct {
	TopicID        string
	Score          int
	TotalQuestions int
	CompletedAt    time.Time
}

// Percentage returns round(100 * score / total).
func Percentage(score, total int) (int, error) {
	if total <= 0 {
		return 0, ErrNoQuestions
	}
	if score < 0 || score > total {
		return 0, ErrInvalidScore
	}
	// Integer half-up rounding; score and total are non-negative here.
	return (200*score + total) / (2 * total), nil
}
