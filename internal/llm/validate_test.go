package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func quizQuestionSchema() *Schema {
	return &Schema{
		Name:        "validate-quiz-question",
		Description: "One multiple-choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correct_index": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
				"difficulty":    map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			},
			"required": []any{"question", "options", "correct_index"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete question", `{"question":"What does an embedding encode?","options":["Meaning","Pixels","Latency","Nothing"],"correct_index":0,"difficulty":"easy"}`, false},
		{"optional field omitted", `{"question":"Why chunk documents?","options":["a","b","c","d"],"correct_index":2}`, false},
		{"missing answer", `{"question":"What is RAG?","options":["a","b","c","d"]}`, true},
		{"index as string", `{"question":"q","options":["a","b","c","d"],"correct_index":"two"}`, true},
		{"index out of range", `{"question":"q","options":["a","b","c","d"],"correct_index":4}`, true},
		{"three options", `{"question":"q","options":["a","b","c"],"correct_index":0}`, true},
		{"unknown difficulty", `{"question":"q","options":["a","b","c","d"],"correct_index":1,"difficulty":"expert"}`, true},
		{"prose instead of JSON", `Sure! Here is your question:`, true},
		{"empty reply", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(quizQuestionSchema(), json.RawMessage(tt.raw), "end")
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("expected reply to be kept on the error, got %q", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`), "end"); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_TruncatedReplyReportsTokenLimit(t *testing.T) {
	raw := json.RawMessage(`{"question":"Explain attention","options":["Weights over tok`)
	err := validateResponse(quizQuestionSchema(), raw, "max_tokens")

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
	if string(maxTok.Content) != string(raw) {
		t.Fatalf("expected truncated reply on the error, got %q", maxTok.Content)
	}
}

func TestValidateResponse_ValidReplyAtTokenLimitPasses(t *testing.T) {
	raw := json.RawMessage(`{"question":"q","options":["a","b","c","d"],"correct_index":3}`)
	if err := validateResponse(quizQuestionSchema(), raw, "max_tokens"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_NestedLessonSections(t *testing.T) {
	schema := &Schema{
		Name:        "validate-lesson",
		Description: "Lesson with sections",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"overview": map[string]any{"type": "string"},
				"key_points": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title": map[string]any{"type": "string"},
							"body":  map[string]any{"type": "string"},
						},
						"required": []any{"title"},
					},
				},
			},
			"required": []any{"overview", "key_points"},
		},
	}

	valid := json.RawMessage(`{"overview":"Vectors for meaning.","key_points":[{"title":"Cosine similarity","body":"Angle between vectors."}]}`)
	if err := validateResponse(schema, valid, "end"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"overview":"Vectors for meaning.","key_points":[{"body":"no title"}]}`)
	if err := validateResponse(schema, invalid, "end"); err == nil {
		t.Fatal("expected error for key point without a title")
	}
}
