package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
)

// Service generates lessons and keeps successful ones for the life of the
// process, so revisiting a topic does not cost another request.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[string]*Lesson
}

// NewService creates a lesson generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		cache:    make(map[string]*Lesson),
	}
}

// Generate returns the lesson for topic, from cache when available.
// Failures are not cached and are never retried here.
func (s *Service) Generate(ctx context.Context, topic catalog.Topic) (*Lesson, error) {
	if l, ok := s.Cached(topic.ID); ok {
		return l, nil
	}

	lesson, err := s.generate(ctx, topic)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[topic.ID] = lesson
	s.mu.Unlock()
	return lesson, nil
}

// Cached returns a previously generated lesson.
func (s *Service) Cached(topicID string) (*Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.cache[topicID]
	return l, ok
}

// Forget drops the cached lesson so the next Generate asks again.
func (s *Service) Forget(topicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, topicID)
}

func (s *Service) generate(ctx context.Context, topic catalog.Topic) (*Lesson, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLesson)

	req := llm.Request{
		System: mentor.SystemInstruction,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(topic)},
		},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}

	var lesson Lesson
	if err := json.Unmarshal(resp.Content, &lesson); err != nil {
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}
	lesson.TopicID = topic.ID
	lesson.CodeExample = strings.TrimSpace(lesson.CodeExample)

	if strings.TrimSpace(lesson.Overview) == "" || len(lesson.KeyConcepts) == 0 {
		return nil, fmt.Errorf("lesson for %s: %w", topic.ID, ErrIncompleteLesson)
	}
	return &lesson, nil
}
