package format

import (
	"bytes"
	"strings"
	"testing"
)

type card struct {
	Title     string `json:"title"`
	LightText bool   `json:"lightText"`
	Count     int    `json:"count"`
}

type cards []card

func (c cards) Header() []string { return []string{"TITLE", "COUNT"} }

func (c cards) Rows() [][]string {
	out := make([][]string, 0, len(c))
	for _, x := range c {
		out = append(out, []string{x.Title, strings.Repeat("*", x.Count)})
	}
	return out
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: JSON},
		{in: "JSON", want: JSON},
		{in: " edn ", want: EDN},
		{in: "table", want: Table},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Parse(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := []card{{Title: "Legacy", LightText: true, Count: 12345678901}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `[{:count 12345678901 :light-text true :title "Legacy"}]` + "\n"
	if buf.String() != want {
		t.Fatalf("edn = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"a": []any{}, "b": nil}, "edn", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	want = "{\n  :a []\n  :b nil\n}\n"
	if buf.String() != want {
		t.Fatalf("pretty edn = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSONDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"title": "Boys & Girls <U18>"}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"title":"Boys & Girls <U18>"}` {
		t.Fatalf("json = %s", got)
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, cards{{Title: "Legacy", Count: 2}}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TITLE", "COUNT", "Legacy", "**"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}

	if err := Write(&buf, []card{}, "table", false); err == nil {
		t.Fatalf("expected error for non-tabular payload")
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"id":              "id",
		"lightText":       "light-text",
		"slides_per_view": "slides-per-view",
		"Past Glory":      "past-glory",
		"_hints":          "_hints",
	} {
		if got := Keyword(in); got != want {
			t.Fatalf("Keyword(%q) = %q, want %q", in, got, want)
		}
	}
}
