package cli

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"highsport/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal event wall in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the interactive TUI over the web via a server-side PTY and a browser
terminal emulator. Each browser tab starts its own TUI process; resizing the
browser window resizes the terminal, which reclassifies the wall.
`),
		Example: strings.TrimSpace(`
highsport webtui --addr 127.0.0.1:3334
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(app.v.GetString("webtui.addr"))
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   actualAddr,
				Args:   app.sessionArgs(),
				Logger: app.log,
			})
			if err != nil {
				_ = ln.Close()
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"source":    app.sourceLocator(),
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			}, "open http://"+actualAddr)

			fmt.Fprintf(cmd.ErrOrStderr(), "highsport webtui running at http://%s\n", actualAddr)

			ctx, stop := signalContext(commandContext(cmd))
			defer stop()
			if err := serve(ctx, ln, srv.Handler(), app.log); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	_ = app.v.BindPFlag("webtui.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// sessionArgs are the flags each browser session's TUI starts with, so it
// reads the same config and source as the server.
func (app *App) sessionArgs() []string {
	var args []string
	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		args = append(args, "--config", p)
	}
	if loc := app.sourceLocator(); loc != "" {
		args = append(args, "--source", loc)
	}
	return args
}
