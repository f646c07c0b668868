package cli

import (
	"strconv"

	"highsport/internal/model"

	"github.com/charmbracelet/x/ansi"
)

const descriptionColumn = 48

type eventRows []model.Event

func (r eventRows) Header() []string {
	return []string{"ID", "TYPE", "DATE", "TITLE", "DESCRIPTION", "IMAGE"}
}

func (r eventRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, ev := range r {
		img := ""
		if ev.HasImage() {
			img = "yes"
		}
		out = append(out, []string{ev.ID, ev.Category, ev.Date, ev.Title, ansi.Truncate(ev.Description, descriptionColumn, "…"), img})
	}
	return out
}

type categoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type categoryRows []categoryCount

func (r categoryRows) Header() []string { return []string{"CATEGORY", "EVENTS"} }

func (r categoryRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, c := range r {
		out = append(out, []string{c.Category, strconv.Itoa(c.Count)})
	}
	return out
}

type valueRows []model.CoreValue

func (r valueRows) Header() []string { return []string{"", "VALUE", "ACCENT", "DESCRIPTION"} }

func (r valueRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, v := range r {
		out = append(out, []string{v.Icon, v.Title, v.Accent, v.Description})
	}
	return out
}

type classification struct {
	Width         int    `json:"width"`
	Mode          string `json:"mode"`
	SlidesPerView int    `json:"slidesPerView"`
	SpaceBetween  int    `json:"spaceBetween"`
	// Columns is set when the width was derived from the terminal.
	Columns int `json:"columns,omitempty"`
}

func (c classification) Header() []string {
	return []string{"WIDTH", "MODE", "SLIDES", "GAP"}
}

func (c classification) Rows() [][]string {
	return [][]string{{strconv.Itoa(c.Width), c.Mode, strconv.Itoa(c.SlidesPerView), strconv.Itoa(c.SpaceBetween) + "px"}}
}
