package sample

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0644
)

// Run generates a dataset, writes it to disk and, when a base URL is set,
// checks that the running service reports the same figures for it.
func Run(ctx context.Context, config *RunConfig) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting dataset generation",
		logger.Int("colleges", config.Generator.Colleges),
		logger.Int("years", config.Generator.Years),
		logger.Int("groups", config.Generator.Groups),
		logger.Float64("missingRate", config.Generator.MissingRate),
		logger.Any("seed", config.Generator.Seed),
		logger.String("baseURL", config.BaseURL))

	// Step 1: Generate the dataset
	ds, err := Generate(ctx, config.Generator)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}
	stats.Colleges = len(ds.Colleges)
	stats.Years = len(ds.Cohorts)
	stats.ScoreRecords = len(ds.CollegeScores)

	// Step 2: Save it
	filename, err := Save(ctx, config.OutputFile, ds)
	if err != nil {
		return fmt.Errorf("dataset save failed: %w", err)
	}
	config.OutputFile = filename

	// Step 3: Verify against a running service
	if config.BaseURL != "" {
		if err := verifyService(ctx, config, ds, stats); err != nil {
			return fmt.Errorf("service verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "dataset generation completed", logger.String("file", filename))
	return nil
}

// Save writes ds as indented JSON. An empty filename gets a timestamped
// default. The written filename is returned.
func Save(ctx context.Context, filename string, ds *dataset.Dataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("no dataset to save")
	}
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_dataset_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "dataset saved to file", logger.String("filename", filename))
	return filename, nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("colleges", stats.Colleges),
		logger.Int("years", stats.Years),
		logger.Int("scoreRecords", stats.ScoreRecords),
		logger.Int("yearsVerified", stats.YearsVerified),
		logger.String("duration", stats.Duration.String()))
}
