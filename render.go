package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"moonmoji/moonphase"
)

var (
	colorPrimary = lipgloss.Color("#F4D35E") // moonlight
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#4A90E2")

	dateStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

// renderCalendar returns one styled line per day, "<date> – <name> <glyph>"
func renderCalendar(days []moonphase.Day) string {
	var sb strings.Builder
	for _, d := range days {
		fmt.Fprintf(&sb, "%s – %s %s\n",
			dateStyle.Render(d.Date.Format(time.DateOnly)),
			nameStyle.Render(d.Phase.Name),
			d.Phase.Emoji)
	}
	return sb.String()
}

// renderPlain is renderCalendar without styling
func renderPlain(days []moonphase.Day) string {
	var sb strings.Builder
	for _, d := range days {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
