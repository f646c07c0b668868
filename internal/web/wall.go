package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"highsport/internal/content"
	"highsport/internal/eventwall"
	"highsport/internal/model"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

// DefaultViewportWidth is assumed for clients that do not report a width.
const DefaultViewportWidth = 1280

// wallSignals is the datastar signal set the page keeps for the wall.
type wallSignals struct {
	Session  string `json:"session"`
	Category string `json:"category"`
	VW       int    `json:"vw"`
	Offset   int    `json:"offset"`
}

func (sig wallSignals) normalized() wallSignals {
	sig.Session = strings.TrimSpace(sig.Session)
	if !eventwall.IsTab(sig.Category) {
		sig.Category = eventwall.All
	}
	if sig.VW <= 0 {
		sig.VW = DefaultViewportWidth
	}
	if sig.Offset < 0 {
		sig.Offset = 0
	}
	return sig
}

func signalsFromQuery(q url.Values) wallSignals {
	sig := wallSignals{
		Session:  q.Get("session"),
		Category: strings.TrimSpace(q.Get("category")),
	}
	sig.VW, _ = strconv.Atoi(q.Get("vw"))
	sig.Offset, _ = strconv.Atoi(q.Get("offset"))
	return sig.normalized()
}

// awaitSettled blocks until the session's load settles, ctx ends or limit
// elapses. A zero limit waits without a deadline.
func awaitSettled(ctx context.Context, ws *wallSession, limit time.Duration) bool {
	var timeout <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-ws.wall.Done():
	case <-timeout:
	case <-ctx.Done():
	}
	return ws.settled()
}

// renderWall renders the wall, applying the requested strip offset and an
// optional one-slide step once the strip exists.
func renderWall(wall *eventwall.Wall, offset int, nav string) eventwall.Render {
	r := wall.Render()
	if r.Kind != eventwall.RenderWide {
		return r
	}
	wall.Seek(offset)
	switch nav {
	case "next":
		wall.Next()
	case "prev":
		wall.Prev()
	}
	return wall.Render()
}

// wallForRequest renders the wall of the page session named in the query,
// opening one when needed. The render waits for a first load up to the
// configured render wait.
func (s *Server) wallForRequest(r *http.Request) (wallVM, error) {
	q := r.URL.Query()
	sig := signalsFromQuery(q)
	ws, err := s.sessions.acquire(sig.Session, sig.VW)
	if err != nil {
		return wallVM{}, err
	}
	awaitSettled(r.Context(), ws, s.cfg.RenderWait)
	return newWallVM(ws.apply(sig, q.Get("nav")), ws.id), nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm, err := s.wallForRequest(r)
	if err != nil {
		s.log.Error("mount wall", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "page", newPageVM(vm))
}

func (s *Server) handleWallFragment(w http.ResponseWriter, r *http.Request) {
	vm, err := s.wallForRequest(r)
	if err != nil {
		s.log.Error("mount wall", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "wall", vm)
}

// handleWallStream applies the page's signals to its session wall and patches
// #event-wall once the load has settled. A page whose session expired gets a
// new one and its id in the patched signals.
func (s *Server) handleWallStream(w http.ResponseWriter, r *http.Request) {
	var sig wallSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, "bad signals: "+err.Error(), http.StatusBadRequest)
		return
	}
	sig = sig.normalized()
	nav := r.URL.Query().Get("nav")

	sse := datastar.NewSSE(w, r)
	ctx := sse.Context()

	ws, err := s.sessions.acquire(sig.Session, sig.VW)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	// The page already shows loading until the first settle.
	if !awaitSettled(ctx, ws, 0) {
		return
	}

	rendered := ws.apply(sig, nav)
	html, err := s.renderTemplate("wall", newWallVM(rendered, ws.id))
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector("#event-wall"), datastar.WithMode(datastar.ElementPatchModeOuter))
	_ = sse.MarshalAndPatchSignals(map[string]any{
		"session":  ws.id,
		"category": rendered.Category,
		"offset":   rendered.Offset,
		"mode":     string(rendered.Mode),
	})
}

func (s *Server) handleEventsJSON(w http.ResponseWriter, r *http.Request) {
	events, err := s.cfg.Source.Fetch(r.Context())
	if err != nil {
		s.log.Warn("events.json", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type tabVM struct {
	Label  string
	Href   string
	Active bool
}

type wallVM struct {
	Session       string
	HeadingAccent string
	Heading       string
	Tagline       string
	Tabs          []tabVM

	Kind      string
	Message   string
	Category  string
	Width     int
	Mode      string
	Cards     []eventwall.Card
	MaxHeight int

	Offset    int
	PerView   int
	Gap       int
	Dots      []bool
	CanPrev   bool
	CanNext   bool
	PrevHref  string
	NextHref  string
	Positions int
}

func wallHref(session, category string, vw, offset int) string {
	q := url.Values{}
	if session != "" {
		q.Set("session", session)
	}
	q.Set("category", category)
	q.Set("vw", strconv.Itoa(vw))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return "/?" + q.Encode()
}

func newWallVM(r eventwall.Render, session string) wallVM {
	vm := wallVM{
		Session:       session,
		HeadingAccent: content.WallHeadingAccent,
		Heading:       content.WallHeading,
		Tagline:       content.WallTagline,
		Kind:          r.Kind.String(),
		Message:       r.Message,
		Category:      r.Category,
		Width:         r.Width,
		Mode:          string(r.Mode),
		Cards:         r.Visible(),
		MaxHeight:     r.MaxHeight,
		Offset:        r.Offset,
		PerView:       r.PerView,
		Gap:           r.SpaceBetween,
		CanPrev:       r.CanPrev,
		CanNext:       r.CanNext,
		Positions:     r.Positions,
	}
	for _, t := range eventwall.Tabs {
		vm.Tabs = append(vm.Tabs, tabVM{Label: t, Href: wallHref(session, t, r.Width, 0), Active: t == r.Category})
	}
	if r.Kind == eventwall.RenderWide {
		vm.Dots = make([]bool, r.Positions)
		vm.Dots[r.Offset] = true
		vm.PrevHref = wallHref(session, r.Category, r.Width, r.Offset-1)
		vm.NextHref = wallHref(session, r.Category, r.Width, r.Offset+1)
	}
	return vm
}

type pageVM struct {
	Logo         [2]string
	BannerHTML   template.HTML
	LocationHTML template.HTML
	ValuesTitle  string
	Values       []model.CoreValue
	Wall         wallVM
	// Signals seeds the datastar signal store.
	Signals string
}

func newPageVM(wall wallVM) pageVM {
	banner, _ := content.Section(content.SectionBanner)
	location, _ := content.Section(content.SectionLocation)
	sig, _ := json.Marshal(wallSignals{Session: wall.Session, Category: wall.Category, VW: wall.Width, Offset: wall.Offset})
	return pageVM{
		Logo:         content.Logo,
		BannerHTML:   renderMarkdownHTML(banner),
		LocationHTML: renderMarkdownHTML(location),
		ValuesTitle:  content.CoreValuesTitle,
		Values:       content.CoreValues(),
		Wall:         wall,
		Signals:      string(sig),
	}
}
