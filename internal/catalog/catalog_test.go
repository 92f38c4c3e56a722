package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasCourseTopics(t *testing.T) {
	c := Default()
	require.Equal(t, 8, c.Len())

	all := c.All()
	assert.Equal(t, "week1-foundations", all[0].ID)
	assert.Equal(t, "week8-deployment", all[7].ID)

	rag, ok := c.Lookup("week3-rag-basics")
	require.True(t, ok)
	assert.Equal(t, CategoryRAG, rag.Category)
	assert.Equal(t, "Week 3: RAG Pipeline Implementation", rag.Title)
	assert.Contains(t, rag.Context, "RecursiveCharacterTextSplitter")
	assert.NotEmpty(t, rag.Description)

	for _, topic := range all {
		assert.True(t, topic.Category.Valid(), topic.ID)
		assert.NotEmpty(t, topic.Context, topic.ID)
	}
}

func TestLookup_Missing(t *testing.T) {
	_, ok := Default().Lookup("week9-nothing")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Title = "mutated"
	first, _ := c.Lookup("week1-foundations")
	assert.NotEqual(t, "mutated", first.Title)
}

func TestShortLabel(t *testing.T) {
	c := Default()
	assert.Equal(t, "W1", c.ShortLabel("week1-foundations"))
	assert.Equal(t, "W8", c.ShortLabel("week8-deployment"))
	assert.Equal(t, "unknown", c.ShortLabel("unknown"))

	custom, err := New([]Topic{{ID: "intro", Title: "Intro", Category: CategoryAgents}})
	require.NoError(t, err)
	assert.Equal(t, "T1", custom.ShortLabel("intro"))
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "topics: []\n"},
		{"missing id", "topics:\n  - title: A\n    category: RAG\n"},
		{"missing title", "topics:\n  - id: a\n    category: RAG\n"},
		{"bad category", "topics:\n  - id: a\n    title: A\n    category: Cooking\n"},
		{"duplicate", "topics:\n  - id: a\n    title: A\n    category: RAG\n  - id: a\n    title: B\n    category: RAG\n"},
		{"unknown field", "topics:\n  - id: a\n    title: A\n    category: RAG\n    colour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoad_Custom(t *testing.T) {
	doc := `topics:
  - id: intro
    title: "Intro to Prompts"
    category: Foundation
    description: basics
    context: |
      prompts are instructions
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	topic, ok := c.Lookup("intro")
	require.True(t, ok)
	assert.Equal(t, "prompts are instructions\n", topic.Context)
}

func TestMatchContext(t *testing.T) {
	c := Default()
	tests := []struct {
		name    string
		message string
		wantID  string
	}{
		{"title mention", "Can you recap Week 3: RAG Pipeline Implementation?", "week3-rag-basics"},
		{"title is case-insensitive", "stuck on WEEK 5: AGENTS & FUNCTION CALLING", "week5-agents"},
		{"category alone ties", "How does RAG work?", ""},
		{"category word inside another word", "what is the average storage cost", ""},
		{"no match", "hello there", ""},
		{"blank", "   ", ""},
		{"title beats shared category", "week 4: advanced rag & evaluation vs plain rag", "week4-advanced-rag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, ok := c.MatchContext(tt.message)
			if tt.wantID == "" {
				assert.False(t, ok, "matched %q", topic.ID)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, topic.ID)
		})
	}
}

func TestMatchContext_UniqueCategory(t *testing.T) {
	c, err := New([]Topic{
		{ID: "a", Title: "Alpha", Category: CategoryAgents},
		{ID: "b", Title: "Beta", Category: CategoryRAG},
	})
	require.NoError(t, err)

	topic, ok := c.MatchContext("tell me about rag")
	require.True(t, ok)
	assert.Equal(t, "b", topic.ID)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("rag basics", "rag"))
	assert.True(t, containsWord("what is rag?", "rag"))
	assert.True(t, containsWord("graph-rag", "rag"))
	assert.False(t, containsWord("storage", "rag"))
	assert.False(t, containsWord("ragas", "rag"))
	assert.True(t, containsWord("ragas and rag", "rag"))
	assert.False(t, containsWord("anything", ""))
}
