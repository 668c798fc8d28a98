package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/palmares/internal/sample"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		colleges    = flag.Int("colleges", sample.DefaultColleges, "Number of colleges")
		years       = flag.Int("years", sample.DefaultYears, "Number of cohort years")
		firstYear   = flag.Int("first-year", sample.DefaultFirstYear, "Oldest cohort year")
		groups      = flag.Int("groups", sample.DefaultGroups, "Number of groups per cohort")
		missingRate = flag.Float64("missing", sample.DefaultMissingRate, "Share of axis values left out")
		seed        = flag.Int64("seed", sample.DefaultSeed, "Random seed")
		outputFile  = flag.String("output", "", "Output file (default: generated_dataset_TIMESTAMP.json)")
		baseURL     = flag.String("url", "", "Base URL of a running service to verify against")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Log file for tool output")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sample.ShowHelp()
		return
	}

	if err := sample.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &sample.RunConfig{
		Generator: sample.Config{
			Colleges:    *colleges,
			Years:       *years,
			FirstYear:   *firstYear,
			Groups:      *groups,
			MissingRate: *missingRate,
			Seed:        *seed,
		},
		OutputFile: *outputFile,
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := sample.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
