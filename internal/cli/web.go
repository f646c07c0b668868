package cli

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"highsport/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWebCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the home page and event wall over HTTP",
		Long: strings.TrimSpace(`
Serve the home page: logo, banner, event wall, core values and location.

The event wall is rendered on the server, so it works without JavaScript
(category tabs and paging are plain links). With JavaScript a datastar
stream re-renders the wall on tab changes, paging and window resizes.
`),
		Example: strings.TrimSpace(`
# Serve on localhost and open a browser
highsport web --open

# Serve events imported into the local index
highsport --source sqlite web --addr :3333
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(app.v.GetString("web.addr"))
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			src, err := app.openSource()
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			srv, err := web.NewServer(web.ServerConfig{
				Addr:   actualAddr,
				Source: src,
				Logger: app.log,
			})
			if err != nil {
				_ = ln.Close()
				return writeErr(cmd, err)
			}
			defer srv.Close()

			opened := false
			openErr := ""
			if app.v.GetBool("web.open") {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			var hints []string
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"source":    app.sourceLocator(),
				"opened":    opened,
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			}, hints...)

			fmt.Fprintf(cmd.ErrOrStderr(), "highsport web running at %s (source=%s)\n", url, app.sourceLocator())
			if openErr != "" {
				app.log.Warn("failed to open browser", zap.String("error", openErr))
			}

			ctx, stop := signalContext(commandContext(cmd))
			defer stop()
			if err := serve(ctx, ln, srv.Handler(), app.log); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:3333", "Bind address (host:port or :port)")
	cmd.Flags().Bool("open", false, "Open the page in your default browser")
	_ = app.v.BindPFlag("web.addr", cmd.Flags().Lookup("addr"))
	_ = app.v.BindPFlag("web.open", cmd.Flags().Lookup("open"))
	return cmd
}
