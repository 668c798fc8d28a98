// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Dataset is the location of the dataset document: an http(s) URL or a
	// local file path.
	Dataset string `koanf:"dataset"`

	// FetchTimeoutMS bounds the dataset download.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// WatchDataset reloads a file dataset when it changes on disk.
	WatchDataset bool `koanf:"watch_dataset"`

	// RankSize is the length of the top and bottom lists.
	RankSize int `koanf:"rank_size"`

	// SearchDebounceMS delays search re-renders in the browser.
	SearchDebounceMS int `koanf:"search_debounce_ms"`

	// AllGroupsLabel labels the "all groups" option.
	AllGroupsLabel string `koanf:"all_groups_label"`

	// ChartWidth and ChartHeight size the SVG charts, in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace is the first segment of every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsRefreshMS is the period of the system gauge refresh.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`

	// MetricsLabels are constant labels added to every metric, e.g. the
	// deployment name. Set them in the YAML file.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config holding the defaults.
func New() *Config {
	c := &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		Dataset:          "./data/valdoise.json",
		FetchTimeoutMS:   10_000,
		WatchDataset:     false,
		RankSize:         3,
		SearchDebounceMS: 60,
		AllGroupsLabel:   "Tous",
		ChartWidth:       720,
		ChartHeight:      360,
		MetricsEnabled:   true,
		MetricsNamespace: "palmares",
		MetricsRefreshMS: 10_000,
	}
	return c
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
