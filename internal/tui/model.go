package tui

import (
	"context"

	"highsport/internal/eventwall"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type screen int

const (
	screenWall screen = iota
	screenAbout
)

// wallChangedMsg is delivered after the wall reports a state change.
type wallChangedMsg struct{}

type mountFailedMsg struct{ err error }

type appModel struct {
	ctx     context.Context
	src     eventwall.Source
	wall    *eventwall.Wall
	bus     *eventwall.ResizeBus
	changes chan struct{}
	log     *zap.Logger
	cellPx  int

	width  int
	height int
	screen screen
	render eventwall.Render
	focus  int
	err    error

	spinner spinner.Model
	body    viewport.Model
	about   viewport.Model
	dots    paginator.Model
	help    help.Model
	keys    keyMap
}

func newAppModel(ctx context.Context, opts Options, cols, rows int) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cellPx := opts.CellPx
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}

	changes := make(chan struct{}, 1)
	wall := eventwall.New(
		eventwall.WithLogger(log),
		eventwall.WithOnChange(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleAccent()

	dots := paginator.New()
	dots.Type = paginator.Dots
	dots.ActiveDot = styleAccent().Render(glyphDotActive())
	dots.InactiveDot = styleMuted().Render(glyphDot())

	h := help.New()
	h.Styles.ShortKey = styleAccent()
	h.Styles.ShortDesc = styleMuted()

	m := appModel{
		ctx:     ctx,
		src:     opts.Source,
		wall:    wall,
		bus:     eventwall.NewResizeBus(cols * cellPx),
		changes: changes,
		log:     log,
		cellPx:  cellPx,
		width:   cols,
		height:  rows,
		spinner: s,
		body:    viewport.New(cols, rows),
		about:   viewport.New(cols, rows),
		dots:    dots,
		help:    h,
		keys:    keys,
	}
	m.layout()
	return m
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return wallChangedMsg{}
	}
}

func (m appModel) Init() tea.Cmd {
	if err := m.wall.Mount(m.ctx, m.src, m.bus); err != nil {
		return func() tea.Msg { return mountFailedMsg{err: err} }
	}
	return tea.Batch(m.spinner.Tick, waitForChange(m.changes))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bus.Publish(msg.Width * m.cellPx)
		m.layout()
		m.refresh()
		return m, nil

	case wallChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case mountFailedMsg:
		m.err = msg.err
		m.log.Error("mount event wall", zap.Error(msg.err))
		return m, nil

	case spinner.TickMsg:
		if m.render.Kind != eventwall.RenderLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.wall.Unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.About):
		if m.screen == screenAbout {
			m.screen = screenWall
		} else {
			m.screen = screenAbout
			m.about.GotoTop()
		}
		m.layout()
		m.refresh()
		return m, nil
	}

	if m.screen == screenAbout {
		var cmd tea.Cmd
		m.about, cmd = m.about.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.stepTab(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.stepTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextSlide):
		if m.wall.Next() {
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevSlide):
		if m.wall.Prev() {
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.NextCard):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCard):
		m.moveFocus(-1)
		return m, nil
	}
	if tab, ok := tabForKey(msg.String(), eventwall.Tabs); ok {
		m.selectTab(tab)
		return m, nil
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *appModel) stepTab(delta int) {
	current := m.wall.Category()
	idx := 0
	for i, t := range eventwall.Tabs {
		if t == current {
			idx = i
			break
		}
	}
	n := len(eventwall.Tabs)
	m.selectTab(eventwall.Tabs[((idx+delta)%n+n)%n])
}

func (m *appModel) selectTab(tab string) {
	if tab == m.wall.Category() {
		return
	}
	m.wall.SelectCategory(tab)
	m.focus = 0
	m.body.GotoTop()
	m.refresh()
}

func (m *appModel) moveFocus(delta int) {
	if m.render.Kind != eventwall.RenderWide {
		return
	}
	m.focus = clampInt(m.focus+delta, 0, len(m.render.Visible())-1)
	m.refresh()
}

// refresh re-renders the wall and loads the result into the scroll areas.
func (m *appModel) refresh() {
	m.render = m.wall.Render()
	r := m.render

	switch r.Kind {
	case eventwall.RenderCompact:
		m.body.SetContent(renderList(r.Cards, m.width))
	case eventwall.RenderWide:
		m.focus = clampInt(m.focus, 0, len(r.Visible())-1)
		m.body.SetContent(renderStrip(r, m.width, m.cellPx, m.focus))
		m.dots.TotalPages = r.Positions
		m.dots.Page = r.Offset
	default:
		m.body.SetContent("")
	}
	if m.screen == screenAbout {
		m.about.SetContent(renderAbout(m.width))
	}
}

// layout sizes the scroll areas to what the header and footer leave over.
func (m *appModel) layout() {
	m.help.Width = m.width
	bodyH := m.height - lipgloss.Height(m.headerView()) - lipgloss.Height(m.footerView())
	if bodyH < 1 {
		bodyH = 1
	}
	m.body.Width, m.body.Height = m.width, bodyH
	m.about.Width, m.about.Height = m.width, bodyH
}
