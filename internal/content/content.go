// Package content holds the static copy of the home page: the markdown
// sections, the bundled events document and the core values cards.
package content

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"highsport/internal/model"
)

//go:embed sections/*.md events.json
var contentFS embed.FS

// Home page section order. The event wall sits between the banner and the
// location section.
const (
	SectionBanner   = "banner"
	SectionLocation = "location"
)

// Sections lists the markdown section names, sorted.
func Sections() []string {
	entries, err := fs.Glob(contentFS, "sections/*.md")
	if err != nil {
		return []string{}
	}
	var names []string
	for _, p := range entries {
		base := path.Base(p)
		if name := strings.TrimSuffix(base, path.Ext(base)); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Section returns the markdown source of a named section.
func Section(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	b, err := contentFS.ReadFile(path.Join("sections", name+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// DefaultEvents is the bundled events document.
func DefaultEvents() []byte {
	b, err := contentFS.ReadFile("events.json")
	if err != nil {
		return []byte("[]")
	}
	return b
}

// Logo is the two-part wordmark.
var Logo = [2]string{"HIGH", "SPORT"}

// WallHeading and WallTagline head the event wall.
const (
	WallHeadingAccent = "Regional high school"
	WallHeading       = "Games and Sports center"
	WallTagline       = "Immerse yourself in the most exclusive High School Games and sports events"
)

// CoreValuesTitle heads the core values strip.
const CoreValuesTitle = "Our Core Values"

var coreValues = []model.CoreValue{
	{Icon: "🏆", Title: "Legacy", Description: "Every match and record is preserved for generations to come.", Accent: "#facc15"},
	{Icon: "🌍", Title: "Visibility", Description: "Local talent and achievements seen by the world.", Accent: "#1e3a8a", LightText: true},
	{Icon: "🤝", Title: "Community", Description: "Built by teachers, athletes, coaches—owned by all.", Accent: "#22c55e", LightText: true},
	{Icon: "💡", Title: "Discovery", Description: "Turning grassroots pride into opportunity and national attention.", Accent: "#4f46e5", LightText: true},
	{Icon: "🚀", Title: "Opportunity", Description: "Scholarships, direct sponsorship, and real scouting networks.", Accent: "#ec4899", LightText: true},
	{Icon: "🔗", Title: "Connections", Description: "Families, alumni, diaspora—follow and support their teams.", Accent: "#60a5fa", LightText: true},
	{Icon: "📝", Title: "Empowerment", Description: "Crowdsourced journalism—anyone can be a contributor.", Accent: "#06b6d4", LightText: true},
}

// CoreValues returns a copy of the core values cards in display order.
func CoreValues() []model.CoreValue {
	out := make([]model.CoreValue, len(coreValues))
	copy(out, coreValues)
	return out
}
