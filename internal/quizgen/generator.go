package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
)

// Generator produces quiz question sets.
type Generator interface {
	// Generate returns a validated, non-empty question set for the topic.
	Generate(ctx context.Context, topic catalog.Topic) ([]Question, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

type quizOutput struct {
	Questions []Question `json:"questions"`
}

// Generate asks for a question set once; failures are returned, not retried.
func (g *LLMGenerator) Generate(ctx context.Context, topic catalog.Topic) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	input := GenerateInput{Topic: topic, Count: g.config.Count}

	req := llm.Request{
		System: mentor.SystemInstruction,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	// Renumber so ids are stable regardless of what the model sent.
	for i := range out.Questions {
		out.Questions[i].ID = i + 1
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(out.Questions, input); verr != nil {
			return nil, verr
		}
	}

	return out.Questions, nil
}
