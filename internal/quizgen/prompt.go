package quizgen

import (
	"fmt"
	"strings"
)

func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Generate %d multiple-choice quiz questions for: %q.\n", input.Count, input.Topic.Title))
	b.WriteString("Use the context provided:\n")
	b.WriteString(strings.TrimSpace(input.Topic.Context))
	b.WriteString("\n\nThe difficulty should be moderate to hard.\n")
	b.WriteString(`
Rules:
- Each question has exactly one correct option; give its zero-based index.
- Use four distinct options per question.
- Do not repeat questions.
- Explain briefly why the correct option is right.`)

	return b.String()
}
