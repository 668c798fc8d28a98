// Package source loads the dataset document from an http(s) URL or a local
// file. Every failure is reported as dataset.ErrUnavailable.
package source

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/palmares/internal/domain/dataset"
)

// Default loader settings.
const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 64 << 20
)

// ErrNoLocation is returned by New for an empty location.
var ErrNoLocation = errors.New("dataset location is empty")

// Loader fetches and decodes the dataset.
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	// Location names where the dataset comes from.
	Location() string
}

// Option applies a configuration option to a loader.
type Option func(*settings)

type settings struct {
	timeout  time.Duration
	maxBytes int64
	client   *http.Client
}

// WithTimeout bounds the whole download.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBytes caps the size of the document.
func WithMaxBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithHTTPClient sets the client used for URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// New picks the loader matching location: an HTTPLoader for http(s) URLs, a
// FileLoader otherwise.
func New(location string, opts ...Option) (Loader, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrNoLocation
	}
	s := settings{timeout: defaultTimeout, maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(&s)
	}
	if IsURL(location) {
		return newHTTPLoader(location, s), nil
	}
	return newFileLoader(location, s), nil
}

// IsURL reports whether location is an http(s) URL.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
