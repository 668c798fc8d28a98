package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/rows"
	"github.com/okian/palmares/pkg/metrics"
)

// Snapshot is an immutable view of one loaded dataset. Nothing reachable
// from a published Snapshot is ever modified.
type Snapshot struct {
	Dataset  *dataset.Dataset
	Source   string
	LoadedAt time.Time
	// Version increases by one on every publish.
	Version uint64

	tables sync.Map // year -> rows.Table
}

// Table returns the rows of year, built on first use and shared afterwards.
func (s *Snapshot) Table(year string) rows.Table {
	if t, ok := s.tables.Load(year); ok {
		return t.(rows.Table)
	}
	t, _ := s.tables.LoadOrStore(year, rows.Build(s.Dataset, year))
	return t.(rows.Table)
}

// SnapshotStore publishes snapshots through an atomic pointer so readers
// never lock.
type SnapshotStore struct {
	mu      sync.Mutex // serializes publishers
	version uint64
	now     func() time.Time

	snapshot atomic.Pointer[Snapshot]
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.
func (s *SnapshotStore) Publish(_ context.Context, ds *dataset.Dataset, source string) (*Snapshot, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	snap := &Snapshot{
		Dataset:  ds,
		Source:   source,
		LoadedAt: s.now(),
		Version:  s.version,
	}
	s.snapshot.Store(snap)

	metrics.UpdateDatasetSize(len(ds.Colleges), len(ds.Years()), len(ds.CollegeScores))
	return snap, nil
}

// Current implements Store.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Count implements Store.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Dataset.Colleges)
}
