package lessons

import "github.com/abhishaiv/AI-Study-Master/internal/llm"

// LessonSchema defines the JSON schema for lesson generation.
var LessonSchema = &llm.Schema{
	Name:        "study-lesson",
	Description: "A structured study lesson with overview, key concepts, code example, pitfalls and checklist",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overview": map[string]any{
				"type":        "string",
				"description": "A concise summary of the topic",
			},
			"keyConcepts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":   map[string]any{"type": "string", "description": "Concept name"},
						"content": map[string]any{"type": "string", "description": "Detailed explanation"},
					},
					"required":             []any{"title", "content"},
					"additionalProperties": false,
				},
			},
			"codeExample": map[string]any{
				"type":        "string",
				"description": "Code snippet if relevant, else empty string",
			},
			"pitfalls": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Three common mistakes or misunderstandings",
			},
			"checklist": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Three to five things to master for this topic",
			},
		},
		"required":             []any{"overview", "keyConcepts", "codeExample", "pitfalls", "checklist"},
		"additionalProperties": false,
	},
}
