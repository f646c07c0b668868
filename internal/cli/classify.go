package cli

import (
	"errors"
	"os"

	"highsport/internal/eventwall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newClassifyCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show how the event wall lays out at a viewport width",
		Long: `Classify a viewport width (px) into compact or wide and report the slides
per view. Without --width the terminal width times tui.cell_px is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := classification{Width: width}
			if !cmd.Flags().Changed("width") {
				cols, _, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil || cols <= 0 {
					return writeErr(cmd, errors.New("classify: not a terminal; pass --width"))
				}
				out.Columns = cols
				out.Width = cols * app.cfg.TUI.CellPx
			}
			if out.Width < 0 {
				return writeErr(cmd, errors.New("classify: --width must not be negative"))
			}
			out.Mode = string(eventwall.Classify(out.Width))
			out.SlidesPerView = eventwall.SlidesPerView(out.Width)
			out.SpaceBetween = eventwall.SpaceBetween(out.Width)
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Viewport width in px")
	return cmd
}
