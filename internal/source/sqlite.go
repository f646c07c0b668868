package source

import (
	"context"
	"fmt"

	"highsport/internal/model"
	"highsport/internal/store"

	"go.uber.org/zap"
)

// SQLite reads the events previously imported into the local index.
type SQLite struct {
	Store  store.Store
	Logger *zap.Logger
}

func (s SQLite) Fetch(ctx context.Context) ([]model.Event, error) {
	events, err := s.Store.ListEvents(ctx)
	if err != nil {
		return nil, transportErr(fmt.Errorf("read events index: %w", err))
	}
	logOrNop(s.Logger).Debug("events read from index", zap.String("path", s.Store.Path), zap.Int("count", len(events)))
	return events, nil
}
