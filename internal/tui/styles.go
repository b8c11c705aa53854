package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorHover  = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#E5C07B"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"}
)

// handleWidth is the number of cells, from the left edge, that act as a drag handle.
const handleWidth = 4

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	card     lipgloss.Style
	active   lipgloss.Style
	hovered  lipgloss.Style
	selected lipgloss.Style
	handle   lipgloss.Style
	tags     lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
}

func newStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1)
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		card:     card,
		active:   card.BorderForeground(colorAccent).Bold(true),
		hovered:  card.BorderForeground(colorHover),
		selected: card.BorderForeground(colorAccent),
		handle:   lipgloss.NewStyle().Foreground(colorMuted),
		tags:     lipgloss.NewStyle().Foreground(colorMuted),
		status:   lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(colorError),
	}
}

// applyProfile forces a lipgloss color profile. "auto" and "" keep the detected one.
func applyProfile(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascii":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "ansi":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "ansi256":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
