package tui

import (
	"fmt"
	"strings"

	"highsport/internal/content"
	"highsport/internal/eventwall"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var body string
	if m.screen == screenAbout {
		body = m.about.View()
	} else {
		body = m.wallView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
}

func (m appModel) headerView() string {
	logo := styleAccent().Render(content.Logo[0]) + lipgloss.NewStyle().Bold(true).Render(content.Logo[1])
	lines := []string{logo}
	if m.screen == screenAbout {
		lines = append(lines, styleMuted().Render("About"))
	} else {
		heading := styleAccent().Render(content.WallHeadingAccent) + " " + lipgloss.NewStyle().Bold(true).Render(content.WallHeading)
		lines = append(lines,
			lipgloss.NewStyle().Width(m.width).Render(heading),
			styleMuted().Width(m.width).Render(content.WallTagline),
			normalizePane(m.tabsView(), m.width, 0),
		)
	}
	lines = append(lines, styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width, 0))))
	return strings.Join(lines, "\n")
}

func (m appModel) tabsView() string {
	selected := m.wall.Category()
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	idle := lipgloss.NewStyle().Background(colorTabBg).Padding(0, 1)

	// Tabs wrap onto further rows instead of being cut at the pane edge.
	var rows []string
	var row []string
	rowW := 0
	for i, t := range eventwall.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		var tab string
		if t == selected {
			tab = active.Render(label)
		} else {
			tab = idle.Render(label)
		}
		w := lipgloss.Width(tab)
		if len(row) > 0 && rowW+1+w > m.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowW = nil, 0
		}
		if len(row) > 0 {
			row = append(row, " ")
			rowW++
		}
		row = append(row, tab)
		rowW += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m appModel) wallView() string {
	r := m.render
	h := m.body.Height
	switch r.Kind {
	case eventwall.RenderLoading:
		return normalizePane(m.spinner.View()+" "+r.Message, m.width, h)
	case eventwall.RenderError:
		return normalizePane(styleError().Width(m.width).Render(r.Message), m.width, h)
	case eventwall.RenderEmpty:
		return normalizePane(styleMuted().Render(r.Message), m.width, h)
	default:
		return m.body.View()
	}
}

func (m appModel) footerView() string {
	r := m.render
	var nav string
	if m.screen == screenWall && r.Kind == eventwall.RenderWide {
		prev, next := styleMuted(), styleMuted()
		if r.CanPrev {
			prev = styleAccent()
		}
		if r.CanNext {
			next = styleAccent()
		}
		nav = prev.Render(glyphPrev()) + " " + m.dots.View() + " " + next.Render(glyphNext())
	}

	var status string
	switch m.screen {
	case screenAbout:
		status = fmt.Sprintf("%s core values", humanize.Comma(int64(len(content.CoreValues()))))
	default:
		status = fmt.Sprintf("%s events %s %s %s %s (%spx)",
			humanize.Comma(int64(len(r.Cards))), glyphSep(),
			m.wall.Category(), glyphSep(),
			eventwall.Classify(m.width*m.cellPx), humanize.Comma(int64(m.width*m.cellPx)))
	}
	if m.err != nil {
		status = styleError().Render(m.err.Error())
	}

	return strings.Join([]string{
		normalizePane(nav, m.width, 1),
		normalizePane(styleMuted().Render(status), m.width, 1),
		m.help.View(m.keys),
	}, "\n")
}

func renderAbout(width int) string {
	var b strings.Builder
	if md, ok := content.Section(content.SectionBanner); ok {
		b.WriteString(renderMarkdown(md, width))
		b.WriteString("\n\n")
	}
	b.WriteString(styleAccent().Render(content.CoreValuesTitle))
	b.WriteString("\n\n")
	b.WriteString(renderValues(content.CoreValues(), width))
	if md, ok := content.Section(content.SectionLocation); ok {
		b.WriteString("\n\n")
		b.WriteString(renderMarkdown(md, width))
	}
	return b.String()
}
