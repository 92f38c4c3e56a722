package catalog

import (
	_ "embed"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopics []byte

// Category groups course topics.
type Category string

const (
	CategoryFoundation Category = "Foundation"
	CategoryRAG        Category = "RAG"
	CategoryAgents     Category = "Agents"
	CategoryDeployment Category = "Deployment"
)

// Categories returns every known category in course order.
func Categories() []Category {
	return []Category{CategoryFoundation, CategoryRAG, CategoryAgents, CategoryDeployment}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Topic is one immutable course topic. Context is the free-text payload
// injected into generator prompts.
type Topic struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Category    Category `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	Context     string   `yaml:"context" json:"contextData"`
}

// Catalog is the ordered, read-only set of course topics.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

type document struct {
	Topics []Topic `yaml:"topics"`
}

// Load parses and validates a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Topics)
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in course catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultTopics))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// New builds a Catalog from topics, preserving their order.
func New(topics []Topic) (*Catalog, error) {
	if len(topics) == 0 {
		return nil, errors.New("catalog has no topics")
	}
	c := &Catalog{
		topics: make([]Topic, len(topics)),
		byID:   make(map[string]int, len(topics)),
	}
	for i, t := range topics {
		switch {
		case t.ID == "":
			return nil, fmt.Errorf("topic %d: id is empty", i)
		case t.Title == "":
			return nil, fmt.Errorf("topic %q: title is empty", t.ID)
		case !t.Category.Valid():
			return nil, fmt.Errorf("topic %q: unknown category %q", t.ID, t.Category)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("topic %q: duplicate id", t.ID)
		}
		c.topics[i] = t
		c.byID[t.ID] = i
	}
	return c, nil
}

// All returns the topics in declaration order.
func (c *Catalog) All() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Lookup returns the topic with the given id.
func (c *Catalog) Lookup(id string) (Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

var weekPrefix = regexp.MustCompile(`(?i)^week\s+(\d+)`)

// ShortLabel returns a compact chart label such as "W3".
func (c *Catalog) ShortLabel(id string) string {
	i, ok := c.byID[id]
	if !ok {
		return id
	}
	if m := weekPrefix.FindStringSubmatch(c.topics[i].Title); m != nil {
		return "W" + m[1]
	}
	return fmt.Sprintf("T%d", i+1)
}
