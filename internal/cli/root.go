package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"highsport/internal/config"
	"highsport/internal/format"
	"highsport/internal/logger"
	"highsport/internal/source"
	"highsport/internal/store"
	"highsport/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TUILogEnv names a file the interactive TUI logs to. Without it the TUI
// does not log, since stderr belongs to the terminal.
const TUILogEnv = "HIGHSPORT_TUI_LOG"

type App struct {
	ConfigPath string
	PrettyJSON bool
	Format     string

	v   *viper.Viper
	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "highsport",
		Short:        "Regional high school games and sports center (TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive event wall
  highsport

  # Scriptable commands
  highsport events list --category Upcoming

  # Category shortcut (same as: highsport events list --category "Past Glory")
  highsport past-glory

  # Serve the home page
  highsport web --open
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if err := app.load(c == c.Root()); err != nil {
			return writeErr(c, err)
		}
		return nil
	}
	cmd.PersistentPostRun = func(c *cobra.Command, args []string) {
		_ = app.log.Sync()
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.ConfigPath, "config", envOr(config.EnvPrefix+"_CONFIG", ""), "Path to a YAML config file")
	flags.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	flags.StringVar(&app.Format, "format", envOr(config.EnvPrefix+"_FORMAT", "json"), "Output format ("+strings.Join(format.Names, "|")+")")
	flags.String("source", "", "Events source: embedded | PATH | file:PATH | http(s)://URL | sqlite[:PATH]")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	_ = app.v.BindPFlag("source", flags.Lookup("source"))
	_ = app.v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newClassifyCmd(app))
	cmd.AddCommand(newValuesCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

// load reads configuration and builds the logger. The TUI only logs when
// TUILogEnv or log.file names a file.
func (app *App) load(interactive bool) error {
	cfg, err := config.Read(app.v, app.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := format.Parse(app.Format); err != nil {
		return err
	}
	app.cfg = cfg

	logCfg := cfg.Log
	if interactive {
		if p := strings.TrimSpace(os.Getenv(TUILogEnv)); p != "" {
			logCfg.File = p
		}
		if strings.TrimSpace(logCfg.File) == "" {
			app.log = zap.NewNop()
			return nil
		}
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	app.log = log
	return nil
}

func (app *App) storePath() string {
	if p := strings.TrimSpace(app.cfg.Store.Path); p != "" {
		return p
	}
	return store.DefaultPath()
}

// sourceLocator resolves a bare "sqlite" to the configured index.
func (app *App) sourceLocator() string {
	loc := strings.TrimSpace(app.cfg.Source)
	if loc == "sqlite" || loc == "sqlite:" {
		return "sqlite:" + app.storePath()
	}
	return loc
}

func (app *App) openSource() (source.Source, error) {
	return source.Open(app.sourceLocator(), source.Options{
		HTTPTimeout: app.cfg.HTTP.Timeout,
		Logger:      app.log,
	})
}

func runTUI(cmd *cobra.Command, app *App) error {
	src, err := app.openSource()
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, tui.Options{
		Source: src,
		CellPx: app.cfg.TUI.CellPx,
		Theme:  app.cfg.TUI.Theme,
		Glyphs: app.cfg.TUI.Glyphs,
		Logger: app.log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints data in the selected format. json and edn wrap it in a
// {data, _hints} envelope; table prints data directly.
func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	if f, _ := format.Parse(app.Format); f == format.Table {
		if t, ok := data.(format.Tabular); ok {
			return format.WriteTable(cmd.OutOrStdout(), t)
		}
	}
	env := map[string]any{"data": data}
	if len(hints) > 0 {
		env["_hints"] = hints
	}
	return format.Write(cmd.OutOrStdout(), env, jsonIfTable(app.Format), app.PrettyJSON)
}

// jsonIfTable falls back to json for payloads without a tabular form.
func jsonIfTable(name string) string {
	if f, _ := format.Parse(name); f == format.Table {
		return string(format.JSON)
	}
	return name
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
