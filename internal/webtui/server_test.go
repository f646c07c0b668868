package webtui

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, exe string, args ...string) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Executable: exe, Args: args})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestNewServerRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(ServerConfig{Addr: "  "}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPagesAndAssets(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, "/bin/true").Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/terminal" {
		t.Fatalf("root: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terminal", nil))
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, `id="terminal"`) || !strings.Contains(body, "/static/app.js") {
		t.Fatalf("terminal: %d\n%s", rec.Code, body)
	}
	if !strings.Contains(body, `data-cols="120"`) {
		t.Fatalf("terminal page missing default size")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `type: "resize"`) {
		t.Fatalf("app.js: %d", rec.Code)
	}
}

func TestParseControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mt     int
		data   string
		want   wsMsg
		wantOK bool
	}{
		{name: "resize", mt: websocket.TextMessage, data: `{"type":"resize","cols":80,"rows":24}`, want: wsMsg{Type: "resize", Cols: 80, Rows: 24}, wantOK: true},
		{name: "case and space", mt: websocket.TextMessage, data: `{"type":" Resize ","cols":60,"rows":20}`, want: wsMsg{Type: " Resize ", Cols: 60, Rows: 20}, wantOK: true},
		{name: "zero size", mt: websocket.TextMessage, data: `{"type":"resize","cols":0,"rows":24}`},
		{name: "unknown type", mt: websocket.TextMessage, data: `{"type":"ping"}`},
		{name: "malformed", mt: websocket.TextMessage, data: `{"type":`},
		{name: "keystroke", mt: websocket.TextMessage, data: "q"},
		{name: "binary json", mt: websocket.BinaryMessage, data: `{"type":"resize","cols":80,"rows":24}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseControl(tt.mt, []byte(tt.data))
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("got %+v %v, want %+v %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:3334/ws", nil)
	if !sameOrigin(r) {
		t.Fatalf("missing origin should pass")
	}
	r.Header.Set("Origin", "http://127.0.0.1:3334")
	if !sameOrigin(r) {
		t.Fatalf("same origin should pass")
	}
	r.Header.Set("Origin", "http://evil.example/?x=127.0.0.1:3334")
	if sameOrigin(r) {
		t.Fatalf("foreign origin should fail")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPumpWSToPTYForwardsKeysAndResizes(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	sizes := make(chan [2]int, 4)
	done := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		done <- pumpWSToPTY(r.Context(), conn, &out, func(cols, rows int) error {
			sizes <- [2]int{cols, rows}
			return nil
		})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	for _, msg := range []struct {
		mt   int
		data string
	}{
		{websocket.TextMessage, `{"type":"resize","cols":70,"rows":30}`},
		{websocket.BinaryMessage, "]]"},
		{websocket.TextMessage, `{"type":"noise"}`},
		{websocket.TextMessage, "q"},
	} {
		if err := conn.WriteMessage(msg.mt, []byte(msg.data)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case got := <-sizes:
		if got != [2]int{70, 30} {
			t.Fatalf("resize = %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for resize")
	}

	deadline := time.Now().Add(5 * time.Second)
	for out.String() != "]]q" {
		if time.Now().After(deadline) {
			t.Fatalf("forwarded = %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("pump did not stop after close")
	}
}

func TestPumpPTYToWSStopsAtEOF(t *testing.T) {
	t.Parallel()

	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = pumpPTYToWS(context.Background(), strings.NewReader("\x1b[2Jhello"), conn)
		// Wait for the client to finish reading.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	go func() {
		mt, data, err := conn.ReadMessage()
		if err != nil || mt != websocket.BinaryMessage {
			received <- ""
			return
		}
		received <- string(data)
	}()

	select {
	case got := <-received:
		if got != "\x1b[2Jhello" {
			t.Fatalf("got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out")
	}
}

func TestSessionRelaysProcessOutput(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	s := newTestServer(t, "/bin/sh", "-c", "printf hi-from-pty; sleep 5")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got strings.Builder
	for !strings.Contains(got.String(), "hi-from-pty") {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("read after %q: %v", got.String(), err)
		}
		if mt == websocket.TextMessage && strings.HasPrefix(string(data), "failed to start session") {
			t.Skipf("pty unavailable: %s", data)
		}
		got.Write(data)
	}
	if !strings.Contains(got.String(), "hi-from-pty") {
		t.Fatalf("output = %q", got.String())
	}
}
