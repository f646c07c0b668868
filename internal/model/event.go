package model

// Event is a single displayable sports event on the event wall.
type Event struct {
	ID          string `json:"id"`
	Category    string `json:"type"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func (e Event) HasImage() bool { return e.Image != "" }

// CoreValue is one card of the "Our Core Values" strip.
type CoreValue struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	// Accent is a hex colour used for the card background.
	Accent string `json:"accent"`
	// LightText is set when the accent needs light foreground text.
	LightText bool `json:"lightText"`
}
