package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	NextSlide key.Binding
	PrevSlide key.Binding
	NextCard  key.Binding
	PrevCard  key.Binding
	Up        key.Binding
	Down      key.Binding
	About     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
	PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
	NextSlide: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next slide")),
	PrevSlide: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev slide")),
	NextCard:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "focus next card")),
	PrevCard:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "focus prev card")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	About:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about / events")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevSlide, k.NextSlide, k.About, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab},
		{k.PrevSlide, k.NextSlide, k.PrevCard, k.NextCard},
		{k.Up, k.Down},
		{k.About, k.Help, k.Quit},
	}
}

// tabForKey maps the digit keys 1..n onto category tabs.
func tabForKey(s string, tabs []string) (string, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return "", false
	}
	i := int(s[0] - '1')
	if i >= len(tabs) {
		return "", false
	}
	return tabs[i], true
}
