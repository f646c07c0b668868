package source

import (
	"context"
	"fmt"
	"os"

	"highsport/internal/content"
	"highsport/internal/model"

	"go.uber.org/zap"
)

// File reads an events document from disk on every fetch.
type File struct {
	Path   string
	Logger *zap.Logger
}

func (f File) Fetch(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, transportErr(fmt.Errorf("read events file: %w", err))
	}
	return decodeDocument(data, f.Path, logOrNop(f.Logger))
}

// Embedded serves the events document bundled into the binary.
type Embedded struct {
	Logger *zap.Logger
}

func (e Embedded) Fetch(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeDocument(content.DefaultEvents(), "embedded:events.json", logOrNop(e.Logger))
}

func logOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
