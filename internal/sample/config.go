package sample

import "time"

// Config holds the generator settings.
type Config struct {
	Colleges    int     // Number of colleges
	Years       int     // Number of consecutive cohort years
	FirstYear   int     // Oldest cohort year
	Groups      int     // Number of groups per cohort
	MissingRate float64 // Share of axis values left out, in [0, 1]
	Seed        int64   // Random seed; the same seed yields the same dataset
}

// RunConfig holds the settings of the gen-dataset tool.
type RunConfig struct {
	Generator  Config
	OutputFile string        // Output file for the dataset
	BaseURL    string        // Optional running service to verify against
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for tool output
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	Colleges      int
	Years         int
	ScoreRecords  int
	YearsVerified int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
