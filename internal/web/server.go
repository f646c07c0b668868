// Package web serves the home page over HTTP. The event wall is rendered on
// the server; with JavaScript enabled a datastar stream re-renders it on tab
// changes, paging and window resizes.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"highsport/internal/eventwall"

	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.css static/img/*.svg
var assetsFS embed.FS

// DefaultRenderWait bounds how long a page render waits for the source
// before sending the loading state.
const DefaultRenderWait = 5 * time.Second

type ServerConfig struct {
	Addr       string
	Source     eventwall.Source
	Logger     *zap.Logger
	RenderWait time.Duration

	// SessionTTL is how long an idle page keeps its mounted wall.
	SessionTTL  time.Duration
	MaxSessions int
}

type Server struct {
	cfg      ServerConfig
	tmpl     *template.Template
	log      *zap.Logger
	sessions *sessionStore
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Source == nil {
		return nil, errors.New("web: source is nil")
	}
	if cfg.RenderWait <= 0 {
		cfg.RenderWait = DefaultRenderWait
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"add":   func(a, b int) int { return a + b },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log = log.Named("web")
	return &Server{
		cfg:      cfg,
		tmpl:     tmpl,
		log:      log,
		sessions: newSessionStore(cfg.Source, cfg.SessionTTL, cfg.MaxSessions, log),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Close unmounts every page's wall. Call it once the handler has stopped.
func (s *Server) Close() {
	s.sessions.close()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/img/{name}", s.handleImage)
	mux.HandleFunc("GET /events.json", s.handleEventsJSON)
	mux.HandleFunc("GET /wall", s.handleWallFragment)
	mux.HandleFunc("GET /wall/stream", s.handleWallStream)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.PathValue("name"))
	if !strings.HasSuffix(name, ".svg") {
		http.NotFound(w, r)
		return
	}
	b, err := assetsFS.ReadFile("static/img/" + name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(b)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE responses streaming through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
