package eventwall

import (
	"context"
	"errors"
	"sync"

	"highsport/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source supplies the events of a wall.
type Source interface {
	Fetch(ctx context.Context) ([]model.Event, error)
}

// userMessager is implemented by errors that carry text fit for display.
type userMessager interface {
	UserMessage() string
}

var (
	ErrMounted   = errors.New("eventwall: already mounted")
	ErrUnmounted = errors.New("eventwall: unmounted")
)

// Wall is one mounted event wall: it owns its filter selection, load state,
// resize subscription and paging handle. A Wall mounts once.
type Wall struct {
	id  string
	log *zap.Logger

	mu          sync.Mutex
	category    string
	load        LoadState
	width       int
	pager       *Pager
	mounted     bool
	alive       bool
	cancel      context.CancelFunc
	unsubscribe func()
	onChange    func()
	done        chan struct{}
}

type Option func(*Wall)

// WithOnChange registers fn to be called after every state change. fn runs
// outside the wall's lock and may call back into the wall.
func WithOnChange(fn func()) Option {
	return func(w *Wall) { w.onChange = fn }
}

func WithLogger(log *zap.Logger) Option {
	return func(w *Wall) {
		if log != nil {
			w.log = log
		}
	}
}

func New(opts ...Option) *Wall {
	w := &Wall{
		id:       uuid.NewString(),
		log:      zap.NewNop(),
		category: All,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(zap.String("wall", w.id))
	return w
}

func (w *Wall) ID() string { return w.id }

// Mount starts loading from src and subscribes to vp. The fetch is bound to a
// child of ctx that Unmount cancels.
func (w *Wall) Mount(ctx context.Context, src Source, vp Viewport) error {
	w.mu.Lock()
	if w.mounted {
		w.mu.Unlock()
		return ErrMounted
	}
	w.mounted = true
	w.alive = true
	w.load = StateLoading()
	w.width = vp.Width()
	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	unsubscribe := vp.Subscribe(w.resize)
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		unsubscribe()
		close(w.done)
		return ErrUnmounted
	}
	w.unsubscribe = unsubscribe
	w.mu.Unlock()

	w.log.Debug("wall mounted", zap.Int("width", vp.Width()))
	go w.fetch(fetchCtx, src)
	w.notify()
	return nil
}

func (w *Wall) fetch(ctx context.Context, src Source) {
	defer close(w.done)

	events, err := src.Fetch(ctx)

	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		w.log.Debug("discarding fetch result after unmount", zap.Error(err))
		return
	}
	if err != nil {
		msg := ""
		var um userMessager
		if errors.As(err, &um) {
			msg = um.UserMessage()
		}
		w.load = StateFailed(msg)
	} else {
		w.load = StateLoaded(events)
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Warn("failed to load events", zap.Error(err))
	} else {
		w.log.Debug("events loaded", zap.Int("count", len(events)))
	}
	w.notify()
}

// Unmount cancels an in-flight fetch and releases the resize subscription.
// It is safe to call more than once.
func (w *Wall) Unmount() {
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		return
	}
	w.alive = false
	cancel, unsubscribe := w.cancel, w.unsubscribe
	w.pager = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	w.log.Debug("wall unmounted")
}

// Done is closed once the fetch goroutine has returned.
func (w *Wall) Done() <-chan struct{} { return w.done }

func (w *Wall) resize(width int) {
	w.mu.Lock()
	if !w.alive || w.width == width {
		w.mu.Unlock()
		return
	}
	w.width = width
	w.mu.Unlock()
	w.notify()
}

// SelectCategory changes the filter selection and rewinds the strip.
func (w *Wall) SelectCategory(category string) {
	w.mu.Lock()
	if !w.alive || w.category == category {
		w.mu.Unlock()
		return
	}
	w.category = category
	w.pager.Seek(0)
	w.mu.Unlock()
	w.notify()
}

func (w *Wall) Category() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.category
}

// Next advances the strip by one slide. It is a no-op before the strip is first
// rendered, in compact mode and after unmount.
func (w *Wall) Next() bool { return w.step((*Pager).Next) }

// Prev moves the strip back by one slide, with the same guards as Next.
func (w *Wall) Prev() bool { return w.step((*Pager).Prev) }

// Seek jumps the strip to offset, clamped to the valid range, with the same
// guards as Next. It reports whether the strip moved.
func (w *Wall) Seek(offset int) bool {
	return w.step(func(p *Pager) bool {
		before := p.Offset()
		p.Seek(offset)
		return p.Offset() != before
	})
}

func (w *Wall) step(move func(*Pager) bool) bool {
	w.mu.Lock()
	moved := w.alive && w.pager != nil && move(w.pager)
	w.mu.Unlock()
	if moved {
		w.notify()
	}
	return moved
}

// Render selects the presentation for the current state. Rendering the wide
// layout attaches the paging handle; any other layout detaches it.
func (w *Wall) Render() Render {
	w.mu.Lock()
	defer w.mu.Unlock()

	in := RenderInput{Load: w.load, Category: w.category, Width: w.width}
	if w.pager != nil {
		in.Offset = w.pager.Offset()
	}
	r := Select(in)
	if r.Kind == RenderWide {
		if w.pager == nil {
			w.pager = NewPager(len(r.Cards), r.PerView)
		}
		w.pager.Reset(len(r.Cards), r.PerView)
		w.pager.Seek(r.Offset)
	} else {
		w.pager = nil
	}
	return r
}

// Snapshot is a point-in-time copy of a wall's state.
type Snapshot struct {
	Category string
	Load     LoadState
	Width    int
	Mode     Mode
	Alive    bool
	Attached bool
}

func (w *Wall) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Category: w.category,
		Load:     w.load,
		Width:    w.width,
		Mode:     Classify(w.width),
		Alive:    w.alive,
		Attached: w.pager != nil,
	}
}

func (w *Wall) notify() {
	if w.onChange != nil {
		w.onChange()
	}
}
