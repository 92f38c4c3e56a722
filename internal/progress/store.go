package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

// DefaultSlotKey names the slot holding the progress document.
const DefaultSlotKey = "100x_study_mentor_progress"

// Store is the only read/write path to the persisted progress document.
// Every mutation is a full read-modify-write round trip; last writer wins.
type Store struct {
	slots  store.SlotRepo
	key    string
	now    func() time.Time
	logger *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for fail-soft load warnings.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSlotKey overrides the slot name.
func WithSlotKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates a progress store over slots.
func NewStore(slots store.SlotRepo, opts ...Option) *Store {
	s := &Store{
		slots:  slots,
		key:    DefaultSlotKey,
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted progress. Missing, unreadable or corrupt data
// yields Default() and a logged warning; Load never fails.
func (s *Store) Load(ctx context.Context) *UserProgress {
	p, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("progress read failed, using defaults", "slot", s.key, "error", err)
		return Default()
	}
	return p
}

// load is the strict read used by mutations. A missing slot or a corrupt
// document yields Default(); a failed read is returned so callers never
// write defaults over data they could not see.
func (s *Store) load(ctx context.Context) (*UserProgress, error) {
	data, err := s.slots.Read(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	if data == nil {
		return Default(), nil
	}

	var p UserProgress
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("progress document corrupt, using defaults", "slot", s.key, "error", err)
		return Default(), nil
	}
	p.normalize()
	return &p, nil
}

// Save overwrites the persisted document with p.
func (s *Store) Save(ctx context.Context, p *UserProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.slots.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// RecordQuizResult raises the best score for the topic when the new
// percentage beats it and logs a quiz activity entry.
func (s *Store) RecordQuizResult(ctx context.Context, r QuizResult) (*UserProgress, error) {
	pct, err := Percentage(r.Score, r.TotalQuestions)
	if err != nil {
		return nil, err
	}

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if best, ok := p.QuizScores[r.TopicID]; !ok || pct > best {
		p.QuizScores[r.TopicID] = pct
	}

	at := r.CompletedAt
	if at.IsZero() {
		at = s.now()
	}
	p.pushActivity(Activity{
		Kind:      KindQuiz,
		TopicID:   r.TopicID,
		Timestamp: at.UnixMilli(),
		Details:   fmt.Sprintf("Scored %d%% on topic", pct),
	})

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("quiz result recorded", "topic", r.TopicID, "percent", pct)
	return p, nil
}

// MarkTopicStudied adds topicID to the completed set. Calling it again for
// the same topic changes nothing and writes nothing.
func (s *Store) MarkTopicStudied(ctx context.Context, topicID string) (*UserProgress, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if p.HasCompleted(topicID) {
		return p, nil
	}

	p.CompletedTopics = append(p.CompletedTopics, topicID)
	p.pushActivity(Activity{
		Kind:      KindStudy,
		TopicID:   topicID,
		Timestamp: s.now().UnixMilli(),
		Details:   "Completed study session",
	})

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordAssignmentReview logs an assignment activity entry after a
// successful draft review.
func (s *Store) RecordAssignmentReview(ctx context.Context, summary string) (*UserProgress, error) {
	details := "Reviewed assignment draft"
	if summary = strings.TrimSpace(summary); summary != "" {
		details += ": " + truncate(summary, 60)
	}

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	p.pushActivity(Activity{
		Kind:      KindAssignment,
		Timestamp: s.now().UnixMilli(),
		Details:   details,
	})

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset empties the progress slot.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.slots.Clear(ctx, s.key); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
