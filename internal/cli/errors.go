package cli

import (
	"fmt"
	"strings"

	"highsport/internal/eventwall"
)

type unknownCategoryError struct {
	name string
}

func (e unknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: %s (expected %s)", e.name, strings.Join(eventwall.Tabs, "|"))
}

// resolveCategory matches a tab label case-insensitively. Dashes and
// underscores stand in for spaces, so "past-glory" is "Past Glory".
func resolveCategory(name string) (string, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name))
	if norm == "" {
		return eventwall.All, nil
	}
	for _, t := range eventwall.Tabs {
		if strings.EqualFold(t, norm) {
			return t, nil
		}
	}
	return "", unknownCategoryError{name: name}
}
