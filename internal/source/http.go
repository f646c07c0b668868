package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"highsport/internal/model"

	"go.uber.org/zap"
)

const maxDocumentBytes = 8 << 20

var ErrDocumentTooLarge = errors.New("events document too large")

// HTTP fetches the events document from a URL.
type HTTP struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger
	// MaxBytes caps the response body; zero means 8 MiB.
	MaxBytes int64
}

func NewHTTP(url string, timeout time.Duration, log *zap.Logger) HTTP {
	return HTTP{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Logger: log,
	}
}

func (h HTTP) Fetch(ctx context.Context) ([]model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, transportErr(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, transportErr(fmt.Errorf("get %s: %w", h.URL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportErr(fmt.Errorf("get %s: unexpected status %s", h.URL, resp.Status))
	}
	limit := h.MaxBytes
	if limit <= 0 {
		limit = maxDocumentBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, transportErr(fmt.Errorf("read %s: %w", h.URL, err))
	}
	if int64(len(data)) > limit {
		return nil, transportErr(fmt.Errorf("get %s: %w (limit %d bytes)", h.URL, ErrDocumentTooLarge, limit))
	}
	return decodeDocument(data, h.URL, logOrNop(h.Logger))
}
