package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrUnavailable is returned while no dataset could be loaded.
	ErrUnavailable = errors.New("dataset unavailable")
	// ErrNotFound is returned for a college the selected year does not list.
	ErrNotFound = errors.New("college not found")
	// ErrNoLoader is returned by Start when no dataset loader was configured.
	ErrNoLoader = errors.New("no dataset loader configured")
)
