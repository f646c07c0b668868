package cli

import (
	"highsport/internal/content"

	"github.com/spf13/cobra"
)

func newValuesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "values",
		Short: "List the core values shown on the home page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, valueRows(content.CoreValues()))
		},
	}
}
