package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	// ErrUnavailable covers every way the dataset can fail to load: network
	// failure, non-success HTTP status, unreadable file or malformed JSON.
	ErrUnavailable = errors.New("dataset unavailable or malformed")
)
