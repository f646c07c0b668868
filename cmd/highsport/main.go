package main

import (
	"os"
	"strings"

	"highsport/internal/cli"
	"highsport/internal/eventwall"
)

// categoryShortcut matches a category tab written as a command, e.g.
// "upcoming" or "past-glory".
func categoryShortcut(s string) (string, bool) {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, t := range eventwall.Tabs {
		if strings.EqualFold(t, s) {
			return t, true
		}
	}
	return "", false
}

func rewriteCategoryShortcutArgs(argv []string) []string {
	// Convenience: `highsport upcoming` works like
	// `highsport events list --category Upcoming`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `highsport --source x.json upcoming`), so find the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--format":    true,
		"--source":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int, category string) []string {
		out := make([]string, 0, len(argv)+3)
		out = append(out, argv[:i]...)
		out = append(out, "events", "list", "--category", category)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if category, ok := categoryShortcut(a); ok {
			return rewrite(i, category)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteCategoryShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
