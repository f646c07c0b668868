package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"highsport/internal/content"
	"highsport/internal/eventwall"
	"highsport/internal/model"
)

type staticSource []model.Event

func (s staticSource) Fetch(context.Context) ([]model.Event, error) {
	return append([]model.Event(nil), s...), nil
}

type failingSource struct{ msg string }

func (f failingSource) Fetch(context.Context) ([]model.Event, error) {
	return nil, &messageError{msg: f.msg}
}

type messageError struct{ msg string }

func (e *messageError) Error() string       { return "upstream: 502" }
func (e *messageError) UserMessage() string { return e.msg }

type stalledSource struct{}

func (stalledSource) Fetch(ctx context.Context) ([]model.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// countingSource answers after a delay and counts its fetches.
type countingSource struct {
	events staticSource
	delay  time.Duration
	calls  *atomic.Int32
}

func (c countingSource) Fetch(ctx context.Context) ([]model.Event, error) {
	c.calls.Add(1)
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.events.Fetch(ctx)
}

var sampleEvents = staticSource{
	{ID: "1", Category: "Upcoming", Title: "Regional Finals", Date: "May 3", Description: "Track and field.", Image: "/img/finals.jpg"},
	{ID: "2", Category: "Ongoing", Title: "Spring League", Date: "April", Description: "Week four."},
	{ID: "3", Category: "Upcoming", Title: "Swim Meet", Date: "May 10", Description: "Pool opens at 8."},
	{ID: "4", Category: "Featured", Title: "Hall of Fame", Date: "June 1", Description: "Induction night."},
	{ID: "5", Category: "Upcoming", Title: "Chess Open", Date: "May 12", Description: "All grades."},
}

func newTestServer(t *testing.T, src eventwall.Source) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Source: src, RenderWait: time.Second})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

var sessionHref = regexp.MustCompile(`session=([0-9a-f-]{36})`)

func streamTarget(t *testing.T, sig wallSignals, nav string) string {
	t.Helper()
	b, err := json.Marshal(sig)
	if err != nil {
		t.Fatalf("marshal signals: %v", err)
	}
	target := "/wall/stream?datastar=" + url.QueryEscape(string(b))
	if nav != "" {
		target += "&nav=" + nav
	}
	return target
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, _ := io.ReadAll(res.Body)
	return res, string(body)
}

func TestNewServerValidates(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(ServerConfig{Source: sampleEvents}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewServer(ServerConfig{Addr: ":0"}); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestHealthAndCSS(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()

	res, body := get(t, h, "/health")
	if res.StatusCode != http.StatusOK || body != "ok\n" {
		t.Fatalf("health: %d %q", res.StatusCode, body)
	}

	res, body = get(t, h, "/static/app.css")
	if res.StatusCode != http.StatusOK || !strings.Contains(res.Header.Get("Content-Type"), "text/css") {
		t.Fatalf("css: %d %q", res.StatusCode, res.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, ".wall-strip") {
		t.Fatalf("css body missing wall rules")
	}

	res, body = get(t, h, "/static/img/athletics.svg")
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "image/svg+xml" || !strings.Contains(body, "<svg") {
		t.Fatalf("image: %d %q", res.StatusCode, res.Header.Get("Content-Type"))
	}
	res, _ = get(t, h, "/static/img/missing.svg")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("missing image status = %d", res.StatusCode)
	}

	res, _ = get(t, h, "/nope")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", res.StatusCode)
	}
}

func TestHomeRendersSectionsAndWideWall(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()
	res, body := get(t, h, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	for _, want := range []string{
		`id="event-wall"`,
		"wall-wide",
		"Games and Sports center",
		"Our Core Values",
		"Legacy",
		"Empowerment",
		"Regional Finals",
		`data-init=`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("home missing %q", want)
		}
	}
	// Four slides per view at the default width: the fifth event waits behind next.
	if !strings.Contains(body, "Induction night") {
		t.Fatalf("expected fourth card in first window")
	}
	if strings.Contains(body, "All grades.") {
		t.Fatalf("fifth card should be outside the first window")
	}
	if !strings.Contains(body, `class="nav-next"`) {
		t.Fatalf("expected an active next control")
	}
}

func TestWallFragmentCompactListsEverything(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()
	_, body := get(t, h, "/wall?vw=500")
	if !strings.Contains(body, "wall-compact") || !strings.Contains(body, "max-height: 684px") {
		t.Fatalf("expected compact list, got:\n%s", body)
	}
	for _, ev := range sampleEvents {
		if !strings.Contains(body, ev.Description) {
			t.Fatalf("compact list missing %q", ev.Title)
		}
	}
	if strings.Contains(body, "wall-nav") {
		t.Fatalf("compact list must not page")
	}
	if strings.Count(body, `class="card-image"`) != 1 {
		t.Fatalf("image block should render only for events with an image")
	}
}

func TestWallFragmentFilters(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()
	_, body := get(t, h, "/wall?vw=500&category=Upcoming")
	for _, title := range []string{"Regional Finals", "Swim Meet", "Chess Open"} {
		if !strings.Contains(body, title) {
			t.Fatalf("missing %q", title)
		}
	}
	if strings.Contains(body, "Spring League") {
		t.Fatalf("Ongoing event leaked into Upcoming")
	}
	if !strings.Contains(body, `tab tab-active" href="/?category=Upcoming`) {
		t.Fatalf("Upcoming tab should be active:\n%s", body)
	}

	_, body = get(t, h, "/wall?vw=1300&category="+url.QueryEscape("Past Glory"))
	if !strings.Contains(body, eventwall.EmptyMessage) {
		t.Fatalf("expected empty message, got:\n%s", body)
	}

	_, body = get(t, h, "/wall?category=Bogus")
	if !strings.Contains(body, `tab tab-active" href="/?category=All`) {
		t.Fatalf("unknown category should fall back to All")
	}
}

func TestWallFragmentPaging(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()
	// 700px shows two slides; five events give four positions.
	_, body := get(t, h, "/wall?vw=700&offset=1")
	if !strings.Contains(body, "Spring League") || !strings.Contains(body, "Swim Meet") {
		t.Fatalf("offset 1 should show events 2 and 3:\n%s", body)
	}
	if strings.Contains(body, "Regional Finals") {
		t.Fatalf("offset 1 should hide event 1")
	}

	_, body = get(t, h, "/wall?vw=700&offset=9")
	if !strings.Contains(body, "Hall of Fame") || !strings.Contains(body, "Chess Open") {
		t.Fatalf("offset should clamp to the last slide:\n%s", body)
	}
	if !strings.Contains(body, `nav-next nav-disabled`) {
		t.Fatalf("next should be disabled at the end")
	}

	_, body = get(t, h, "/wall?vw=700&nav=next")
	if !strings.Contains(body, "Spring League") || strings.Contains(body, "Regional Finals") {
		t.Fatalf("nav=next should advance one slide:\n%s", body)
	}
}

func TestWallFragmentFailure(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, failingSource{msg: "Scoreboard offline"}).Handler()
	_, body := get(t, h, "/wall")
	if !strings.Contains(body, "Scoreboard offline") || !strings.Contains(body, `role="alert"`) {
		t.Fatalf("expected failure message, got:\n%s", body)
	}
	if strings.Contains(body, `class="card"`) {
		t.Fatalf("failure must not render cards")
	}
}

func TestWallFragmentLoadingAfterRenderWait(t *testing.T) {
	t.Parallel()

	s, err := NewServer(ServerConfig{Addr: ":0", Source: stalledSource{}, RenderWait: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)
	_, body := get(t, s.Handler(), "/wall")
	if !strings.Contains(body, eventwall.LoadingMessage) {
		t.Fatalf("expected loading state, got:\n%s", body)
	}
}

func TestEventsJSON(t *testing.T) {
	t.Parallel()

	res, body := get(t, newTestServer(t, sampleEvents).Handler(), "/events.json")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(sampleEvents) || got[0]["type"] != "Upcoming" {
		t.Fatalf("unexpected document: %s", body)
	}
	if _, ok := got[1]["image"]; ok {
		t.Fatalf("image should be omitted when absent")
	}

	res, body = get(t, newTestServer(t, failingSource{}).Handler(), "/events.json")
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(body, eventwall.FailureMessage) {
		t.Fatalf("expected fallback failure message, got %s", body)
	}
}

func TestWallStreamPatchesWall(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, sampleEvents).Handler()
	sig := url.QueryEscape(`{"category":"Upcoming","vw":500,"offset":0}`)
	res, body := get(t, h, "/wall/stream?datastar="+sig)
	if !strings.Contains(res.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("content type = %q", res.Header.Get("Content-Type"))
	}
	for _, want := range []string{"datastar-patch-elements", "#event-wall", "wall-compact", "Swim Meet", "datastar-patch-signals"} {
		if !strings.Contains(body, want) {
			t.Fatalf("stream missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Spring League") {
		t.Fatalf("stream ignored the category signal")
	}
}

func TestPageSessionFetchesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	h := newTestServer(t, countingSource{events: sampleEvents, delay: 50 * time.Millisecond, calls: &calls}).Handler()

	_, page := get(t, h, "/?vw=1280")
	m := sessionHref.FindStringSubmatch(page)
	if m == nil {
		t.Fatalf("page carries no session:\n%s", page)
	}
	id := m[1]

	// Tab click, then a resize into compact mode.
	_, tab := get(t, h, streamTarget(t, wallSignals{Session: id, Category: "Upcoming", VW: 1280}, ""))
	_, resize := get(t, h, streamTarget(t, wallSignals{Session: id, Category: "Upcoming", VW: 500}, ""))

	for name, body := range map[string]string{"tab": tab, "resize": resize} {
		if strings.Contains(body, eventwall.LoadingMessage) {
			t.Fatalf("%s stream patched the loading state:\n%s", name, body)
		}
		if !strings.Contains(body, "Swim Meet") || strings.Contains(body, "Spring League") {
			t.Fatalf("%s stream should show Upcoming only:\n%s", name, body)
		}
		if !strings.Contains(body, `"session":"`+id+`"`) {
			t.Fatalf("%s stream should keep session %s:\n%s", name, id, body)
		}
	}
	if !strings.Contains(tab, "wall-wide") || !strings.Contains(resize, "wall-compact") {
		t.Fatalf("resize should reclassify the same wall")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("source fetches for one page, one tab click and one resize = %d, want 1", got)
	}
}

func TestWallStreamPagesSessionWall(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, sampleEvents)
	h := s.Handler()
	_, page := get(t, h, "/?vw=700")
	id := sessionHref.FindStringSubmatch(page)[1]

	_, body := get(t, h, streamTarget(t, wallSignals{Session: id, Category: eventwall.All, VW: 700}, "next"))
	if !strings.Contains(body, "Spring League") || strings.Contains(body, "Regional Finals") {
		t.Fatalf("nav=next should advance the session strip:\n%s", body)
	}
	if !strings.Contains(body, `"offset":1`) {
		t.Fatalf("offset signal should follow the strip:\n%s", body)
	}
	if got := s.sessions.count(); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}
}

func TestWallStreamUnknownSessionOpensNew(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, sampleEvents)
	_, body := get(t, s.Handler(), streamTarget(t, wallSignals{Session: "gone", VW: 500}, ""))
	if strings.Contains(body, eventwall.LoadingMessage) {
		t.Fatalf("stream patched the loading state:\n%s", body)
	}
	if !strings.Contains(body, `"session":"`) || strings.Contains(body, `"session":"gone"`) {
		t.Fatalf("expected a fresh session id in the signals:\n%s", body)
	}
	if got := s.sessions.count(); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}
}

func TestSessionsExpireAndEvict(t *testing.T) {
	t.Parallel()

	s, err := NewServer(ServerConfig{Addr: ":0", Source: sampleEvents, SessionTTL: time.Minute, MaxSessions: 2})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.sessions.now = func() time.Time { return now }

	first, err := s.sessions.acquire("", 1280)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	now = now.Add(time.Second)
	second, _ := s.sessions.acquire("", 1280)
	now = now.Add(time.Second)
	third, _ := s.sessions.acquire("", 1280)

	if first.wall.Snapshot().Alive {
		t.Fatalf("oldest session should be evicted at capacity")
	}
	if again, _ := s.sessions.acquire(second.id, 1280); again != second {
		t.Fatalf("live session should be reused")
	}

	now = now.Add(2 * time.Minute)
	fresh, _ := s.sessions.acquire(third.id, 1280)
	if fresh == third || third.wall.Snapshot().Alive || second.wall.Snapshot().Alive {
		t.Fatalf("idle sessions should expire")
	}
	if got := s.sessions.count(); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}

	s.Close()
	if fresh.wall.Snapshot().Alive {
		t.Fatalf("Close should unmount every wall")
	}
}

func TestSignalsFromQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  wallSignals
	}{
		{name: "defaults", query: "", want: wallSignals{Category: eventwall.All, VW: DefaultViewportWidth}},
		{name: "valid", query: "category=Featured&vw=640&offset=2", want: wallSignals{Category: "Featured", VW: 640, Offset: 2}},
		{name: "unknown category", query: "category=Chess", want: wallSignals{Category: eventwall.All, VW: DefaultViewportWidth}},
		{name: "negative", query: "vw=-3&offset=-1", want: wallSignals{Category: eventwall.All, VW: DefaultViewportWidth}},
		{name: "session", query: "session=+abc+&vw=500", want: wallSignals{Session: "abc", Category: eventwall.All, VW: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, _ := url.ParseQuery(tt.query)
			if got := signalsFromQuery(q); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	if got := userMessage(errors.New("boom")); got != eventwall.FailureMessage {
		t.Fatalf("plain error: %q", got)
	}
	if got := userMessage(&messageError{msg: "Try later"}); got != "Try later" {
		t.Fatalf("typed error: %q", got)
	}
}

func TestRenderMarkdownHTMLSanitizes(t *testing.T) {
	t.Parallel()

	got := string(renderMarkdownHTML("# Hi :tada:\n\n<script>alert(1)</script>"))
	if !strings.Contains(got, "<h1") || strings.Contains(got, "<script>") {
		t.Fatalf("unexpected html: %s", got)
	}
}

func TestBundledEventImagesAreServed(t *testing.T) {
	t.Parallel()

	decoded, err := eventwall.Decode(content.DefaultEvents())
	if err != nil {
		t.Fatalf("decode bundled events: %v", err)
	}
	h := newTestServer(t, sampleEvents).Handler()
	for _, ev := range decoded.Events {
		if !ev.HasImage() {
			continue
		}
		if res, _ := get(t, h, ev.Image); res.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", ev.Image, res.StatusCode)
		}
	}
}
