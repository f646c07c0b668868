package eventwall

import "sync"

// Mode is the presentation layout derived from the viewport width.
type Mode string

const (
	ModeCompact Mode = "compact"
	ModeWide    Mode = "wide"
)

const (
	// CompactBreakpoint is the first width (px) that classifies as wide.
	CompactBreakpoint = 640
	// LargeBreakpoint is the first width (px) that shows four slides.
	LargeBreakpoint = 1024

	// CompactMaxHeight caps the compact list at roughly three cards (3*220 + 2*12).
	CompactMaxHeight = 3*220 + 2*12
)

// Classify maps a viewport width in pixels to a layout mode.
func Classify(width int) Mode {
	if width < CompactBreakpoint {
		return ModeCompact
	}
	return ModeWide
}

// SlidesPerView is the number of events visible at once in the paged strip.
func SlidesPerView(width int) int {
	switch {
	case width >= LargeBreakpoint:
		return 4
	case width >= CompactBreakpoint:
		return 2
	default:
		return 1
	}
}

// SpaceBetween is the gap in pixels between slides of the paged strip.
func SpaceBetween(width int) int {
	if width >= LargeBreakpoint {
		return 24
	}
	return 20
}

// Viewport is a source of viewport widths.
//
// Subscribe registers fn for every width change and returns the function that
// removes the registration. Unsubscribing twice is a no-op.
type Viewport interface {
	Width() int
	Subscribe(fn func(width int)) (unsubscribe func())
}

// ResizeBus is an in-process Viewport. Each UI surface owns one and publishes
// its resize signals on it.
type ResizeBus struct {
	mu    sync.Mutex
	width int
	next  int
	subs  map[int]func(int)
}

func NewResizeBus(width int) *ResizeBus {
	return &ResizeBus{width: width, subs: map[int]func(int){}}
}

func (b *ResizeBus) Width() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

// Publish records width and notifies subscribers synchronously.
func (b *ResizeBus) Publish(width int) {
	b.mu.Lock()
	b.width = width
	fns := make([]func(int), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

func (b *ResizeBus) Subscribe(fn func(int)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Subscribers reports the number of live registrations.
func (b *ResizeBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
