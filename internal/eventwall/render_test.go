package eventwall

import (
	"strings"
	"testing"

	"highsport/internal/model"
)

func TestSelect_Precedence(t *testing.T) {
	t.Parallel()

	events := sampleEvents()
	tests := []struct {
		name string
		in   RenderInput
		want RenderKind
	}{
		{name: "not loaded renders loading", in: RenderInput{Width: 800}, want: RenderLoading},
		{name: "loading", in: RenderInput{Load: StateLoading(), Width: 800}, want: RenderLoading},
		{name: "failed", in: RenderInput{Load: StateFailed("boom"), Width: 800}, want: RenderError},
		{name: "empty wide", in: RenderInput{Load: StateLoaded(events), Category: "Ongoing", Width: 1200}, want: RenderEmpty},
		{name: "empty compact", in: RenderInput{Load: StateLoaded(events), Category: "Ongoing", Width: 320}, want: RenderEmpty},
		{name: "empty load", in: RenderInput{Load: StateLoaded(nil), Category: All, Width: 800}, want: RenderEmpty},
		{name: "compact", in: RenderInput{Load: StateLoaded(events), Category: All, Width: 639}, want: RenderCompact},
		{name: "wide", in: RenderInput{Load: StateLoaded(events), Category: All, Width: 640}, want: RenderWide},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Select(tt.in)
			if got.Kind != tt.want {
				t.Fatalf("Select kind = %s, want %s", got.Kind, tt.want)
			}
			switch got.Kind {
			case RenderLoading, RenderError, RenderEmpty:
				if len(got.Cards) != 0 {
					t.Fatalf("%s must not carry cards", got.Kind)
				}
				if got.Message == "" {
					t.Fatalf("%s must carry a message", got.Kind)
				}
			}
		})
	}
}

func TestSelect_EmptyMessage(t *testing.T) {
	t.Parallel()
	got := Select(RenderInput{Load: StateLoaded(sampleEvents()), Category: "Ongoing", Width: 500})
	if got.Message != EmptyMessage {
		t.Fatalf("Message = %q", got.Message)
	}
}

func TestSelect_CompactKeepsEveryEvent(t *testing.T) {
	t.Parallel()

	var events []model.Event
	for i := 0; i < 40; i++ {
		events = append(events, model.Event{ID: string(rune('a' + i%26)), Category: "Upcoming", Description: strings.Repeat("long text ", 50)})
	}
	got := Select(RenderInput{Load: StateLoaded(events), Category: All, Width: 400})
	if got.Kind != RenderCompact {
		t.Fatalf("kind = %s", got.Kind)
	}
	if len(got.Visible()) != 40 {
		t.Fatalf("compact must not truncate: got %d cards", len(got.Visible()))
	}
	if got.MaxHeight != CompactMaxHeight {
		t.Fatalf("MaxHeight = %d", got.MaxHeight)
	}
	if got.Cards[0].Description != events[0].Description {
		t.Fatalf("description must be unclamped")
	}
}

func TestSelect_WideWindow(t *testing.T) {
	t.Parallel()

	events := sampleEvents()
	got := Select(RenderInput{Load: StateLoaded(events), Category: All, Width: 1280, Offset: 5})
	if got.PerView != 4 || got.Offset != 1 {
		t.Fatalf("PerView=%d Offset=%d, want 4 and clamped 1", got.PerView, got.Offset)
	}
	if !got.CanPrev || got.CanNext {
		t.Fatalf("CanPrev=%v CanNext=%v", got.CanPrev, got.CanNext)
	}
	vis := got.Visible()
	if len(vis) != 4 || vis[0].ID != "2" || vis[3].ID != "5" {
		t.Fatalf("unexpected window: %+v", vis)
	}
	if len(got.Cards) != len(events) {
		t.Fatalf("wide render must keep all cards for the strip")
	}

	tablet := Select(RenderInput{Load: StateLoaded(events), Category: All, Width: 800})
	if tablet.PerView != 2 || tablet.SpaceBetween != 20 {
		t.Fatalf("tablet PerView=%d SpaceBetween=%d", tablet.PerView, tablet.SpaceBetween)
	}
}

func TestSelect_CardFields(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: "1", Category: "Past Glory", Title: "T", Date: "Spring '99", Description: "D", Image: "/a.png"},
		{ID: "2", Title: "No category"},
	}
	got := Select(RenderInput{Load: StateLoaded(events), Category: All, Width: 300})
	if got.Cards[0].Category != "PAST GLORY" || got.Cards[0].Date != "Spring '99" || !got.Cards[0].HasImage() {
		t.Fatalf("unexpected card: %+v", got.Cards[0])
	}
	if got.Cards[1].Category != "" || got.Cards[1].HasImage() {
		t.Fatalf("missing category/image must stay empty: %+v", got.Cards[1])
	}
}

func TestSelect_CardCategoryUsesFullCaseMapping(t *testing.T) {
	t.Parallel()

	events := []model.Event{{ID: "1", Category: "Straße Lauf"}}
	got := Select(RenderInput{Load: StateLoaded(events), Category: All, Width: 300})
	if got.Cards[0].Category != "STRASSE LAUF" {
		t.Fatalf("Category = %q, want %q", got.Cards[0].Category, "STRASSE LAUF")
	}
}

func TestSelect_FailureDefaultsMessage(t *testing.T) {
	t.Parallel()
	got := Select(RenderInput{Load: LoadState{Phase: Failed}})
	if got.Message != FailureMessage {
		t.Fatalf("Message = %q", got.Message)
	}
}
