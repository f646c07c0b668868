package web

import (
	"context"
	"strings"
	"sync"
	"time"

	"highsport/internal/eventwall"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1024
)

// wallSession is the wall mounted for one page. Tab clicks, resizes and
// paging from that page all drive the same wall, so its source is fetched
// once and its load state settles once.
type wallSession struct {
	id   string
	wall *eventwall.Wall
	bus  *eventwall.ResizeBus

	// mu serializes apply so a render reflects one request's inputs.
	mu sync.Mutex

	// lastUsed is guarded by sessionStore.mu.
	lastUsed time.Time
}

// apply feeds the page's signals to the wall and renders it.
func (ws *wallSession) apply(sig wallSignals, nav string) eventwall.Render {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.wall.SelectCategory(sig.Category)
	ws.bus.Publish(sig.VW)
	return renderWall(ws.wall, sig.Offset, nav)
}

func (ws *wallSession) settled() bool {
	return ws.wall.Snapshot().Load.Settled()
}

type sessionStore struct {
	ctx    context.Context
	cancel context.CancelFunc
	src    eventwall.Source
	log    *zap.Logger
	ttl    time.Duration
	max    int
	now    func() time.Time

	mu   sync.Mutex
	byID map[string]*wallSession
}

func newSessionStore(src eventwall.Source, ttl time.Duration, limit int, log *zap.Logger) *sessionStore {
	ctx, cancel := context.WithCancel(context.Background())
	return &sessionStore{
		ctx:    ctx,
		cancel: cancel,
		src:    src,
		log:    log,
		ttl:    ttl,
		max:    limit,
		now:    time.Now,
		byID:   map[string]*wallSession{},
	}
}

// acquire returns the live session for id, or mounts a new wall when id is
// unknown or has expired.
func (st *sessionStore) acquire(id string, vw int) (*wallSession, error) {
	id = strings.TrimSpace(id)
	now := st.now()

	st.mu.Lock()
	st.expireLocked(now)
	if ws, ok := st.byID[id]; ok && id != "" {
		ws.lastUsed = now
		st.mu.Unlock()
		return ws, nil
	}
	st.mu.Unlock()

	bus := eventwall.NewResizeBus(vw)
	wall := eventwall.New(eventwall.WithLogger(st.log))
	if err := wall.Mount(st.ctx, st.src, bus); err != nil {
		return nil, err
	}
	ws := &wallSession{id: uuid.NewString(), wall: wall, bus: bus, lastUsed: now}

	st.mu.Lock()
	for len(st.byID) >= st.max {
		st.evictOldestLocked()
	}
	st.byID[ws.id] = ws
	st.mu.Unlock()

	st.log.Debug("wall session opened", zap.String("session", ws.id), zap.String("wall", wall.ID()))
	return ws, nil
}

func (st *sessionStore) expireLocked(now time.Time) {
	for id, ws := range st.byID {
		if now.Sub(ws.lastUsed) > st.ttl {
			st.dropLocked(id, ws, "expired")
		}
	}
}

func (st *sessionStore) evictOldestLocked() {
	var oldest *wallSession
	for _, ws := range st.byID {
		if oldest == nil || ws.lastUsed.Before(oldest.lastUsed) {
			oldest = ws
		}
	}
	if oldest != nil {
		st.dropLocked(oldest.id, oldest, "evicted")
	}
}

func (st *sessionStore) dropLocked(id string, ws *wallSession, reason string) {
	delete(st.byID, id)
	ws.wall.Unmount()
	st.log.Debug("wall session closed", zap.String("session", id), zap.String("reason", reason))
}

func (st *sessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byID)
}

// close unmounts every wall and cancels fetches still in flight.
func (st *sessionStore) close() {
	st.mu.Lock()
	for id, ws := range st.byID {
		st.dropLocked(id, ws, "shutdown")
	}
	st.mu.Unlock()
	st.cancel()
}
