package lessons

import (
	"fmt"
	"strings"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
)

func buildLessonUserMessage(topic catalog.Topic) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Create a structured study lesson for the topic: %q.\n\n", topic.Title))
	b.WriteString("Use the following RAG Context as the primary source of truth:\n")
	b.WriteString("<CONTEXT>\n")
	b.WriteString(strings.TrimSpace(topic.Context))
	b.WriteString("\n</CONTEXT>\n")

	b.WriteString(`
Return a JSON object with:
1. overview: a concise summary of the topic.
2. keyConcepts: the main concepts, each with a title and a detailed explanation.
3. codeExample: a code snippet if relevant, else an empty string.
4. pitfalls: 3 common mistakes or misunderstandings.
5. checklist: 3-5 things to master for this topic.`)

	return b.String()
}
