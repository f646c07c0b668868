package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultCols = 120
	defaultRows = 40
)

// wsMsg is a control frame from the browser. Everything else is keystrokes.
type wsMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	host := strings.TrimSpace(r.Host)
	return strings.HasSuffix(origin, "://"+host)
}

// parseControl reports whether data is a resize request and returns its size.
func parseControl(mt int, data []byte) (wsMsg, bool) {
	if mt != websocket.TextMessage || len(data) == 0 || data[0] != '{' {
		return wsMsg{}, false
	}
	var m wsMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return wsMsg{}, false
	}
	if strings.ToLower(strings.TrimSpace(m.Type)) != "resize" || m.Cols <= 0 || m.Rows <= 0 {
		return wsMsg{}, false
	}
	if m.Cols > 0xffff {
		m.Cols = 0xffff
	}
	if m.Rows > 0xffff {
		m.Rows = 0xffff
	}
	return m, true
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		s.log.Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, err := s.startPTYSession(ctx)
	if err != nil {
		s.log.Warn("start session", zap.Error(err))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()
	s.log.Info("session started", zap.Int("pid", sess.cmd.Process.Pid))

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ctx, sess.ptmx, conn)
	}()
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, sess.ptmx, sess.resize)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.log.Debug("session ended", zap.Error(err))
		}
	}
	cancel()
	sess.close()
	_ = conn.Close()
	wg.Wait()
	s.log.Info("session closed", zap.Int("pid", sess.cmd.Process.Pid))
}

type ptySession struct {
	ptmx *os.File
	cmd  *exec.Cmd
	once sync.Once
}

func (p *ptySession) resize(cols, rows int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

func (p *ptySession) close() {
	p.once.Do(func() {
		_ = p.ptmx.Close()
		_ = p.cmd.Process.Kill()
		_, _ = p.cmd.Process.Wait()
	})
}

func (s *Server) startPTYSession(ctx context.Context) (*ptySession, error) {
	// No subcommand starts the interactive TUI.
	cmd := exec.CommandContext(ctx, s.cfg.Executable, s.cfg.Args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: defaultCols, Rows: defaultRows})
	if err != nil {
		return nil, err
	}
	return &ptySession{ptmx: ptmx, cmd: cmd}, nil
}

func pumpPTYToWS(ctx context.Context, ptmx io.Reader, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// pumpWSToPTY forwards keystrokes to the PTY and applies resize frames. A
// resize reaches the TUI as a window size change and reclassifies its wall.
func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx io.Writer, resize func(cols, rows int) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if m, ok := parseControl(mt, data); ok {
			_ = resize(m.Cols, m.Rows)
			continue
		}
		if mt == websocket.TextMessage && len(data) > 0 && data[0] == '{' {
			// Malformed or unknown control frame.
			continue
		}
		if len(data) == 0 {
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}
