package cli

import (
	"fmt"

	"highsport/internal/content"

	"github.com/spf13/cobra"
)

func newSectionsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "sections [name]",
		Short: "Show the home page content sections (banner, location)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"sections": content.Sections()})
			}

			name := args[0]
			body, ok := content.Section(name)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown section: %q (run `highsport sections` to list them)", name))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"section": name, "markdown": body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
