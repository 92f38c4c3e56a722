package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/ui/theme"
)

// MultiChoice renders a multiple-choice question. State lives with the
// caller; the component only draws it.
type MultiChoice struct {
	Question     string
	Options      []string
	Selected     int // -1 when nothing is selected
	Submitted    bool
	CorrectIndex int
	Width        int
}

// NewMultiChoice creates a multiple-choice view with nothing selected.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Selected: -1,
	}
}

// OptionLabel returns the display label for option i: 1, 2, 3...
func OptionLabel(i int) string {
	return fmt.Sprintf("%d", i+1)
}

// View renders the question and its options. Once submitted the correct
// option is green and a wrong choice red.
func (m MultiChoice) View() string {
	var b strings.Builder

	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if m.Width > 0 {
		questionStyle = questionStyle.Width(m.Width)
	}
	b.WriteString(questionStyle.Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = theme.Correct
		case m.Submitted && i == m.Selected:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
