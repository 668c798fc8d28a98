// Package repository keeps the loaded dataset as an immutable snapshot that
// concurrent readers share.
package repository

import (
	"context"

	"github.com/okian/palmares/internal/domain/dataset"
)

// Store provides read/write access to the current dataset snapshot.
type Store interface {
	// Publish replaces the current snapshot with one holding ds.
	Publish(ctx context.Context, ds *dataset.Dataset, source string) (*Snapshot, error)

	// Current returns the latest snapshot.
	// Returns ErrNotLoaded before the first Publish.
	Current(ctx context.Context) (*Snapshot, error)

	// Count returns the number of colleges of the current snapshot.
	Count(ctx context.Context) int
}
