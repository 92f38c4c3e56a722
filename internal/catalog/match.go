package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// MatchContext picks the topic whose context should ground a chat message.
// A title mention scores 2 and a whole-word category mention scores 1.
// Only a unique top scorer is returned; ties and misses return false.
func (c *Catalog) MatchContext(message string) (Topic, bool) {
	fold := cases.Fold()
	msg := fold.String(message)
	if strings.TrimSpace(msg) == "" {
		return Topic{}, false
	}

	best, bestScore, tied := -1, 0, false
	for i, t := range c.topics {
		score := 0
		if strings.Contains(msg, fold.String(t.Title)) {
			score += 2
		}
		if containsWord(msg, fold.String(string(t.Category))) {
			score++
		}
		switch {
		case score == 0:
		case score > bestScore:
			best, bestScore, tied = i, score, false
		case score == bestScore:
			tied = true
		}
	}
	if best < 0 || tied {
		return Topic{}, false
	}
	return c.topics[best], true
}

// containsWord reports whether word occurs in s delimited by non-alphanumerics,
// so "rag" does not match inside "storage".
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start <= len(s)-len(word); {
		i := strings.Index(s[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if !wordRuneBefore(s, i) && !wordRuneAt(s, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r := []rune(s[:i])
	return isWordRune(r[len(r)-1])
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	for _, r := range s[i:] {
		return isWordRune(r)
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
