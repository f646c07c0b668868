package eventwall

import "highsport/internal/model"

// All is the wildcard category: it selects every event.
const All = "All"

// Tabs are the selectable category labels, in display order.
var Tabs = []string{All, "Upcoming", "Ongoing", "Featured", "Past Glory"}

// IsTab reports whether c is one of the predefined tab labels.
func IsTab(c string) bool {
	for _, t := range Tabs {
		if t == c {
			return true
		}
	}
	return false
}

// Filter returns the events whose category equals category, in source order.
// The wildcard returns events unchanged. No match yields an empty, non-nil slice.
func Filter(events []model.Event, category string) []model.Event {
	if category == All {
		return events
	}
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Category == category {
			out = append(out, ev)
		}
	}
	return out
}
