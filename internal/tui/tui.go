// Package tui is the terminal front end: the event wall rendered with
// lipgloss cards, plus an about screen with the banner, core values and
// location.
package tui

import (
	"context"
	"errors"
	"os"

	"highsport/internal/eventwall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// DefaultCellPx is the assumed pixel width of one terminal column.
const DefaultCellPx = 8

type Options struct {
	Source eventwall.Source
	// CellPx converts terminal columns to the pixel widths the wall
	// classifies.
	CellPx int
	Theme  string
	Glyphs string
	Logger *zap.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	cols, rows := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cols, rows = w, h
	}

	m := newAppModel(ctx, opts, cols, rows)
	defer m.wall.Unmount()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
