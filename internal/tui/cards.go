package tui

import (
	"strings"

	"highsport/internal/eventwall"
	"highsport/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const minCardWidth = 12

// renderCard draws one event card at exactly width columns. The description
// wraps and is never cut.
func renderCard(c eventwall.Card, width int, focused bool) string {
	if width < minCardWidth {
		width = minCardWidth
	}
	inner := width - 4

	var lines []string
	if c.HasImage() {
		lines = append(lines, styleMuted().Width(inner).Render(glyphImage()+" "+c.Image))
	}
	meta := styleAccent().Render(c.Category)
	if c.Date != "" {
		if c.Category != "" {
			meta += " " + styleMuted().Render(glyphSep()) + " "
		}
		meta += lipgloss.NewStyle().Foreground(colorCardMetaFg).Render(c.Date)
	}
	lines = append(lines, lipgloss.NewStyle().Width(inner).Render(meta))
	lines = append(lines, lipgloss.NewStyle().Bold(true).Width(inner).Render(c.Title))
	if c.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(c.Description))
	}

	border := lipgloss.TerminalColor(colorCardBorder)
	if focused {
		border = colorSelectedBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// renderList is the compact layout: every card stacked vertically.
func renderList(cards []eventwall.Card, width int) string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, renderCard(c, width, false))
	}
	return strings.Join(out, "\n")
}

// renderStrip is the wide layout: the visible window of slides side by side.
// Gaps are the slide spacing converted from pixels to columns.
func renderStrip(r eventwall.Render, width, cellPx, focus int) string {
	visible := r.Visible()
	if len(visible) == 0 || r.PerView <= 0 {
		return ""
	}
	gap := 1
	if cellPx > 0 && r.SpaceBetween/cellPx > gap {
		gap = r.SpaceBetween / cellPx
	}
	cardW := (width - gap*(r.PerView-1)) / r.PerView
	spacer := strings.Repeat(" ", gap)

	parts := make([]string, 0, 2*len(visible))
	for i, c := range visible {
		if i > 0 {
			parts = append(parts, spacer)
		}
		parts = append(parts, renderCard(c, cardW, i == focus))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderValues lays the core values out in as many columns as fit.
func renderValues(values []model.CoreValue, width int) string {
	const cardW = 30
	perRow := width / (cardW + 1)
	if perRow < 1 {
		perRow = 1
	}
	w := cardW
	if perRow == 1 && width < cardW {
		w = width
	}

	var rows []string
	for start := 0; start < len(values); start += perRow {
		end := start + perRow
		if end > len(values) {
			end = len(values)
		}
		var parts []string
		for i, v := range values[start:end] {
			if i > 0 {
				parts = append(parts, " ")
			}
			parts = append(parts, renderValue(v, w))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return strings.Join(rows, "\n")
}

func renderValue(v model.CoreValue, width int) string {
	fg := lipgloss.Color("#111827")
	if v.LightText {
		fg = lipgloss.Color("#ffffff")
	}
	body := lipgloss.NewStyle().Bold(true).Render(v.Icon+" "+v.Title) + "\n" + v.Description
	return lipgloss.NewStyle().
		Background(lipgloss.Color(v.Accent)).
		Foreground(fg).
		Padding(0, 1).
		Width(width).
		Render(body)
}
