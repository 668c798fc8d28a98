// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/palmares/internal/adapters/repository"
	"github.com/okian/palmares/internal/adapters/source"
	"github.com/okian/palmares/internal/domain/ranking"
	"github.com/okian/palmares/internal/domain/selection"
	"github.com/okian/palmares/internal/domain/view"
	"github.com/okian/palmares/pkg/logger"
	"github.com/okian/palmares/pkg/metrics"
)

// Load triggers, used as metric labels.
const (
	TriggerStartup = "startup"
	TriggerReload  = "reload"
)

// View names, used as metric labels.
const (
	viewDashboard = "dashboard"
	viewDetail    = "detail"
)

const defaultSearchDebounce = 60 * time.Millisecond

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader source.Loader
	store  repository.Store

	// Configuration
	rankSize       int
	allLabel       string
	searchDebounce time.Duration

	// State
	started bool
	loadErr error

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the dataset loader.
func WithLoader(l source.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRankSize sets the length of the top and bottom lists.
func WithRankSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rankSize = n
		}
	}
}

// WithAllGroupsLabel sets the label of the "all groups" option.
func WithAllGroupsLabel(label string) Option {
	return func(s *Service) {
		if label != "" {
			s.allLabel = label
		}
	}
}

// WithSearchDebounce sets the delay the dashboard script waits after the
// last keystroke before refreshing.
func WithSearchDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.searchDebounce = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:          repository.NewSnapshotStore(),
		rankSize:       ranking.DefaultSize,
		allLabel:       selection.DefaultAllLabel,
		searchDebounce: defaultSearchDebounce,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset once. A load failure is logged and kept: the
// service keeps running and answers ErrUnavailable until a reload succeeds.
// It is not retried.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		s.mu.Unlock()
		return ErrNoLoader
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting dashboard service...",
		logger.String("dataset", s.loader.Location()),
	)

	if err := s.load(ctx, TriggerStartup); err != nil {
		s.logger.Error(ctx, "dataset load failed, serving degraded dashboard",
			logger.String("dataset", s.loader.Location()),
			logger.Error(err),
		)
		return nil
	}

	s.logger.Info(ctx, "dashboard service started",
		logger.Int("colleges", s.store.Count(ctx)),
		logger.Int("rankSize", s.rankSize),
	)
	return nil
}

// Reload loads the dataset again and swaps the snapshot. On failure the
// previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if s.loader == nil {
		return ErrNoLoader
	}
	return s.load(ctx, TriggerReload)
}

func (s *Service) load(ctx context.Context, trigger string) error {
	start := time.Now()
	ds, err := s.loader.Load(ctx)
	if err == nil {
		_, err = s.store.Publish(ctx, ds, s.loader.Location())
	}
	ms := float64(time.Since(start).Milliseconds())

	if err != nil {
		metrics.RecordDatasetLoad(trigger, metrics.OutcomeFailure, ms)
		metrics.RecordErrorByComponent("service", "dataset_load")
		s.mu.Lock()
		if _, cerr := s.store.Current(ctx); cerr != nil {
			s.loadErr = err
		}
		s.mu.Unlock()
		return err
	}

	metrics.RecordDatasetLoad(trigger, metrics.OutcomeSuccess, ms)
	s.mu.Lock()
	s.loadErr = nil
	s.mu.Unlock()
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// LoadErr returns the error of the failed load, if the service has no
// dataset.
func (s *Service) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// RankSize returns the length of the top and bottom lists.
func (s *Service) RankSize() int {
	return s.rankSize
}

// SearchDebounce returns the search debounce delay.
func (s *Service) SearchDebounce() time.Duration {
	return s.searchDebounce
}

func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	snap, err := s.store.Current(ctx)
	if err == nil {
		return snap, nil
	}
	if loadErr := s.LoadErr(); loadErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, loadErr)
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (s *Service) options() view.Options {
	return view.Options{RankSize: s.rankSize, AllLabel: s.allLabel}
}

// Dashboard builds the dashboard of the selection described by p. When no
// dataset is loaded it returns the degraded dashboard and ErrUnavailable.
func (s *Service) Dashboard(ctx context.Context, p selection.Params) (view.Dashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return view.Unavailable(), err
	}

	start := time.Now()
	state := selection.ResolveTables(snap.Dataset, p, snap.Table)
	d := view.Build(snap.Dataset, state, s.options())
	metrics.RecordViewBuild(viewDashboard, float64(time.Since(start).Microseconds())/1000)
	metrics.RecordFilteredRows(len(d.Table))
	if state.Query != "" {
		metrics.RecordSearchQuery()
	}
	return d, nil
}

// Detail describes college id for the year of p. Group and query do not
// restrict it.
func (s *Service) Detail(ctx context.Context, p selection.Params, id string) (view.Detail, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return view.Detail{}, err
	}

	start := time.Now()
	state := selection.ResolveTables(snap.Dataset, selection.Params{Year: p.Year}, snap.Table)
	d, ok := view.BuildDetail(state, id)
	metrics.RecordViewBuild(viewDetail, float64(time.Since(start).Microseconds())/1000)
	if !ok {
		return view.Detail{}, fmt.Errorf("%w: %q in %s", ErrNotFound, id, state.Year)
	}
	return d, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started, loadErr := s.started, s.loadErr
	s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  started,
		"loaded":   false,
		"rankSize": s.rankSize,
	}
	if s.loader != nil {
		stats["dataset"] = s.loader.Location()
	}
	if loadErr != nil {
		stats["error"] = loadErr.Error()
	}

	snap, err := s.store.Current(ctx)
	if errors.Is(err, repository.ErrNotLoaded) || snap == nil {
		return stats
	}
	stats["loaded"] = true
	stats["version"] = snap.Version
	stats["loadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
	stats["colleges"] = s.store.Count(ctx)
	stats["years"] = snap.Dataset.Years()
	stats["scoreRecords"] = len(snap.Dataset.CollegeScores)
	return stats
}
