// Package format renders command output as json, edn or a terminal table.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	JSON  Format = "json"
	EDN   Format = "edn"
	Table Format = "table"
)

// Names lists the accepted --format values.
var Names = []string{string(JSON), string(EDN), string(Table)}

func Parse(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	case Table:
		return Table, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected %s)", name, strings.Join(Names, "|"))
	}
}

// Tabular is implemented by payloads that can be shown as a table.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Write encodes v to w. The table format requires v to implement Tabular.
func Write(w io.Writer, v any, name string, pretty bool) error {
	f, err := Parse(name)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case Table:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format table: %T has no tabular form", v)
		}
		return WriteTable(w, t)
	default:
		return WriteJSON(w, v, pretty)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
