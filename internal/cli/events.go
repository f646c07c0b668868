package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"highsport/internal/eventwall"
	"highsport/internal/source"
	"highsport/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and import the event wall data",
	}
	cmd.AddCommand(newEventsListCmd(app))
	cmd.AddCommand(newEventsCategoriesCmd(app))
	cmd.AddCommand(newEventsImportCmd(app))
	cmd.AddCommand(newEventsStatusCmd(app))
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events (source order), optionally for one category",
		Example: strings.TrimSpace(`
highsport events list
highsport events list --category "Past Glory"
highsport --format table events list --category upcoming
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := resolveCategory(category)
			if err != nil {
				return writeErr(cmd, err)
			}
			src, err := app.openSource()
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := src.Fetch(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := eventRows(eventwall.Filter(events, cat))
			var hints []string
			if len(rows) == 0 {
				rows = eventRows{}
				hints = append(hints, eventwall.EmptyMessage)
			}
			return writeOut(cmd, app, rows, hints...)
		},
	}
	cmd.Flags().StringVar(&category, "category", eventwall.All, "Category tab ("+strings.Join(eventwall.Tabs, "|")+")")
	return cmd
}

func newEventsCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category tabs with their event counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.openSource()
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := src.Fetch(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make(categoryRows, 0, len(eventwall.Tabs))
			for _, t := range eventwall.Tabs {
				out = append(out, categoryCount{Category: t, Count: len(eventwall.Filter(events, t))})
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newEventsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <source>",
		Short: "Copy events from a file or URL into the local SQLite index",
		Long: strings.TrimSpace(`
Read an events document and replace the contents of the local index with it.
Serve the index afterwards with --source sqlite.
`),
		Example: strings.TrimSpace(`
highsport events import ./events.json
highsport events import https://example.org/events.json
highsport --source sqlite web
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin := strings.TrimSpace(args[0])
			if origin == "sqlite" || strings.HasPrefix(origin, "sqlite:") {
				return writeErr(cmd, errors.New("import: source must be a file or URL"))
			}
			src, err := source.Open(origin, source.Options{HTTPTimeout: app.cfg.HTTP.Timeout, Logger: app.log})
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			events, err := src.Fetch(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := store.Store{Path: app.storePath()}
			if err := st.ReplaceEvents(ctx, events, origin); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"count":  len(events),
				"origin": origin,
				"index":  app.storePath(),
			}, "serve it with: highsport --source sqlite web")
		},
	}
}

func newEventsStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the local SQLite index holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.Store{Path: app.storePath()}
			info, err := st.LastImport(commandContext(cmd))
			if errors.Is(err, store.ErrNeverImported) {
				return writeOut(cmd, app, map[string]any{
					"index":    app.storePath(),
					"imported": false,
				}, "import events with: highsport events import <file-or-url>")
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"index":       app.storePath(),
				"imported":    true,
				"origin":      info.Origin,
				"count":       info.Count,
				"importedAt":  info.ImportedAt.Format(time.RFC3339Nano),
				"importedAgo": humanize.Time(info.ImportedAt),
			})
		},
	}
}
