package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle is avoided:
	// its terminal queries can block on some terminals.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a content section, falling back to the raw
// markdown when glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	styleName := markdownStyle()
	key := styleName + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(styleName)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == styles.LightStyle {
		cfg = styles.LightStyleConfig
	}

	pickColor := func(c lipgloss.AdaptiveColor) *string {
		v := c.Dark
		if styleName == styles.LightStyle {
			v = c.Light
		}
		return &v
	}
	heading := pickColor(colorAccent)
	cfg.H1.Color = heading
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = heading
	cfg.H3.Color = heading
	cfg.Text.Color = pickColor(colorSurfaceFg)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil

	zero := uint(0)
	cfg.Document.Margin = &zero
	return cfg
}
