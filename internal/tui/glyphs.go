package tui

import (
	"strings"
	"sync"
)

// Some fonts render box and arrow glyphs poorly; tui.glyphs=ascii swaps them
// for plain characters.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(pref string) {
	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphPrev() string      { return pick("‹", "<") }
func glyphNext() string      { return pick("›", ">") }
func glyphDotActive() string { return pick("●", "*") }
func glyphDot() string       { return pick("○", ".") }
func glyphImage() string     { return pick("▣", "[img]") }
func glyphHRule() string     { return pick("─", "-") }
func glyphSep() string       { return pick("·", "|") }
