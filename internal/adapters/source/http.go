package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/palmares/internal/domain/dataset"
)

// HTTPLoader downloads the dataset, bypassing caches.
type HTTPLoader struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// newHTTPLoader builds a loader for url. The timeout bounds each Load through
// its context, so it holds for a client set with WithHTTPClient too.
func newHTTPLoader(url string, s settings) *HTTPLoader {
	client := s.client
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPLoader{url: url, client: client, timeout: s.timeout, maxBytes: s.maxBytes}
}

// Location implements Loader.
func (l *HTTPLoader) Location() string { return l.url }

// Load implements Loader. Network failures, non-2xx answers and malformed
// documents all report dataset.ErrUnavailable.
func (l *HTTPLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", dataset.ErrUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", dataset.ErrUnavailable, l.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, l.maxBytes))
		return nil, fmt.Errorf("%w: GET %s: status %d", dataset.ErrUnavailable, l.url, resp.StatusCode)
	}
	return dataset.Decode(io.LimitReader(resp.Body, l.maxBytes))
}
