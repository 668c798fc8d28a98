package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotLoaded  = errors.New("no dataset loaded")
	ErrNilDataset = errors.New("nil dataset")
)
