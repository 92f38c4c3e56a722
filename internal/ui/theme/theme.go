// Package theme holds the palette and shared lipgloss styles. Screens build
// one-off styles from the colors; anything used in two places lives here.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette for a dark terminal. Success, Secondary and Error double as the
// strong, fair and weak score bands.
var (
	Primary   = lipgloss.Color("#7C3AED") // violet
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#10B981") // emerald
	Error     = lipgloss.Color("#EF4444") // red
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#64748B")
	BgCard    = lipgloss.Color("#1E1B2E")
	Border    = lipgloss.Color("#3F3A56")
)

func bold(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var (
	Title = bold(Primary).Align(lipgloss.Center)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Menu rows and quiz answers.
var (
	Selected   = bold(Primary)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = bold(Success)
	Incorrect  = bold(Error)
)

// Score bands.
var (
	Strong = bold(Success)
	Fair   = bold(Secondary)
	Weak   = bold(Error)
)

var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
