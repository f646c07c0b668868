package eventwall

import (
	"highsport/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderKind is the presentation chosen by the render selector.
type RenderKind int

const (
	RenderLoading RenderKind = iota
	RenderError
	RenderEmpty
	RenderCompact
	RenderWide
)

func (k RenderKind) String() string {
	switch k {
	case RenderLoading:
		return "loading"
	case RenderError:
		return "error"
	case RenderEmpty:
		return "empty"
	case RenderCompact:
		return "compact"
	case RenderWide:
		return "wide"
	default:
		return "unknown"
	}
}

const (
	LoadingMessage = "Loading events..."
	EmptyMessage   = "No events found for this category"
)

// Card is the display form of an event, identical in both layouts.
type Card struct {
	ID          string
	Category    string
	Date        string
	Title       string
	Description string
	Image       string
}

func (c Card) HasImage() bool { return c.Image != "" }

func cardOf(ev model.Event) Card {
	return Card{
		ID:          ev.ID,
		Category:    cases.Upper(language.Und).String(ev.Category),
		Date:        ev.Date,
		Title:       ev.Title,
		Description: ev.Description,
		Image:       ev.Image,
	}
}

// RenderInput is everything the selector looks at.
type RenderInput struct {
	Load     LoadState
	Category string
	Width    int
	// Offset is the requested first visible slide in wide mode.
	Offset int
}

// Render is the selected presentation.
type Render struct {
	Kind     RenderKind
	Message  string
	Category string
	Width    int
	Mode     Mode

	// Cards holds every filtered event, in order, for both populated layouts.
	Cards []Card

	// Compact layout.
	MaxHeight int

	// Wide layout.
	Offset       int
	PerView      int
	Positions    int
	SpaceBetween int
	CanPrev      bool
	CanNext      bool
}

// Visible returns the cards inside the wide window, or every card otherwise.
func (r Render) Visible() []Card {
	if r.Kind != RenderWide {
		return r.Cards
	}
	end := r.Offset + r.PerView
	if end > len(r.Cards) {
		end = len(r.Cards)
	}
	return r.Cards[r.Offset:end]
}

// Select chooses the presentation for in. Precedence: loading, error, empty,
// then compact or wide by viewport mode.
func Select(in RenderInput) Render {
	r := Render{Category: in.Category, Width: in.Width, Mode: Classify(in.Width)}

	switch in.Load.Phase {
	case NotLoaded, Loading:
		r.Kind = RenderLoading
		r.Message = LoadingMessage
		return r
	case Failed:
		r.Kind = RenderError
		r.Message = in.Load.Message
		if r.Message == "" {
			r.Message = FailureMessage
		}
		return r
	}

	filtered := Filter(in.Load.Events, in.Category)
	if len(filtered) == 0 {
		r.Kind = RenderEmpty
		r.Message = EmptyMessage
		return r
	}

	r.Cards = make([]Card, len(filtered))
	for i, ev := range filtered {
		r.Cards[i] = cardOf(ev)
	}

	if r.Mode == ModeCompact {
		r.Kind = RenderCompact
		r.MaxHeight = CompactMaxHeight
		return r
	}

	p := NewPager(len(r.Cards), SlidesPerView(in.Width))
	p.Seek(in.Offset)
	r.Kind = RenderWide
	r.Offset = p.Offset()
	r.PerView = p.PerView()
	r.Positions = p.Positions()
	r.SpaceBetween = SpaceBetween(in.Width)
	r.CanPrev = !p.AtStart()
	r.CanNext = !p.AtEnd()
	return r
}
