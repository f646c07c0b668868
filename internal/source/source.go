// Package source provides the event-wall data sources: an embedded default
// document, a JSON file, an HTTP endpoint and the local SQLite index.
package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"highsport/internal/eventwall"
	"highsport/internal/model"
	"highsport/internal/store"

	"go.uber.org/zap"
)

// Source is the event-wall data source contract.
type Source = eventwall.Source

// TransportError reports a data source that could not be read or did not
// answer successfully. Message is safe to show to visitors.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport: " + e.UserMessage()
	}
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) UserMessage() string {
	if strings.TrimSpace(e.Message) == "" {
		return eventwall.FailureMessage
	}
	return e.Message
}

func transportErr(err error) error {
	return &TransportError{Message: eventwall.FailureMessage, Err: err}
}

// Options tune how Open builds a source.
type Options struct {
	HTTPTimeout time.Duration
	Logger      *zap.Logger
}

// Open builds a source from a locator:
//
//	""  or "embedded"     bundled events.json
//	"file:PATH" or PATH   JSON document on disk
//	"http://…", "https://…"
//	"sqlite:PATH"         local index written by `highsport events import`
func Open(locator string, opts Options) (Source, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	locator = strings.TrimSpace(locator)
	switch {
	case locator == "" || locator == "embedded":
		return Embedded{Logger: log}, nil
	case strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://"):
		return NewHTTP(locator, opts.HTTPTimeout, log), nil
	case strings.HasPrefix(locator, "sqlite:"):
		path := strings.TrimPrefix(locator, "sqlite:")
		if strings.TrimSpace(path) == "" {
			return nil, errors.New("source: sqlite locator is missing a path")
		}
		return SQLite{Store: store.Store{Path: path}, Logger: log}, nil
	case strings.HasPrefix(locator, "file:"):
		return File{Path: strings.TrimPrefix(locator, "file:"), Logger: log}, nil
	case strings.Contains(locator, "://"):
		return nil, fmt.Errorf("source: unsupported scheme in %q", locator)
	default:
		return File{Path: locator, Logger: log}, nil
	}
}

// decodeDocument turns a raw document into events, treating a non-array root
// as an empty batch.
func decodeDocument(data []byte, origin string, log *zap.Logger) ([]model.Event, error) {
	decoded, err := eventwall.Decode(data)
	if err != nil {
		return nil, transportErr(fmt.Errorf("%s: %w", origin, err))
	}
	if decoded.Shape == eventwall.ShapeNotArray {
		log.Warn("events document root is not an array; treating as empty", zap.String("origin", origin))
	}
	if decoded.Skipped > 0 {
		log.Warn("skipped non-object events", zap.String("origin", origin), zap.Int("skipped", decoded.Skipped))
	}
	return decoded.Events, nil
}
