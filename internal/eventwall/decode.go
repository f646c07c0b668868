package eventwall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"highsport/internal/model"
)

// Shape tags the root of a decoded events document.
type Shape int

const (
	ShapeArray Shape = iota
	ShapeNotArray
)

func (s Shape) String() string {
	if s == ShapeArray {
		return "array"
	}
	return "not-array"
}

// Decoded is the result of decoding an events document.
type Decoded struct {
	Shape  Shape
	Events []model.Event
	// Skipped counts array elements that were not JSON objects.
	Skipped int
}

// Decode parses an events document. A syntactically valid document whose root
// is not an array decodes to ShapeNotArray with no events. Invalid JSON is an error.
func Decode(data []byte) (Decoded, error) {
	var root json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return Decoded{}, fmt.Errorf("decode events: %w", err)
	}
	trimmed := bytes.TrimSpace(root)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Decoded{Shape: ShapeNotArray, Events: []model.Event{}}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return Decoded{}, fmt.Errorf("decode events: %w", err)
	}

	out := Decoded{Shape: ShapeArray, Events: make([]model.Event, 0, len(elems))}
	for _, raw := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			out.Skipped++
			continue
		}
		out.Events = append(out.Events, model.Event{
			ID:          scalarField(fields["id"]),
			Category:    stringField(fields["type"]),
			Title:       stringField(fields["title"]),
			Date:        stringField(fields["date"]),
			Description: stringField(fields["description"]),
			Image:       stringField(fields["image"]),
		})
	}
	return out, nil
}

// stringField returns raw as a string, or "" when it is absent or not a string.
func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// scalarField accepts both string and numeric ids.
func scalarField(raw json.RawMessage) string {
	if s := stringField(raw); s != "" {
		return s
	}
	var n json.Number
	if len(raw) > 0 && json.Unmarshal(raw, &n) == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
