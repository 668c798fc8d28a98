package sample

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/selection"
	"github.com/okian/palmares/internal/domain/view"
	"github.com/okian/palmares/pkg/logger"
)

// remoteDashboard is the part of the dashboard answer the tool checks.
type remoteDashboard struct {
	Year string `json:"year"`
	KPIs struct {
		Global *float64 `json:"global"`
		Count  int      `json:"count"`
	} `json:"kpis"`
}

// verifyService compares, year by year, the figures of the running service
// with the figures computed locally for ds.
func verifyService(ctx context.Context, config *RunConfig, ds *dataset.Dataset, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	for _, year := range ds.Years() {
		var got remoteDashboard
		if err := client.GetJSON(ctx, dashboardURL(config.BaseURL, year), &got); err != nil {
			return err
		}
		want := view.Build(ds, selection.Reduce(ds, selection.Init(ds), selection.SelectYear(year)), view.Options{})
		if err := compareDashboard(year, got, want); err != nil {
			return err
		}
		stats.YearsVerified++
		if config.Verbose {
			logger.Get().Info(ctx, "year verified",
				logger.String("year", year),
				logger.Int("count", want.KPIs.Count),
				logger.String("global", want.KPIs.GlobalText))
		}
	}
	return nil
}

func compareDashboard(year string, got remoteDashboard, want view.Dashboard) error {
	if got.Year != year {
		return fmt.Errorf("year %s: service selected year %q (is it serving the generated file?)", year, got.Year)
	}
	if got.KPIs.Count != want.KPIs.Count {
		return fmt.Errorf("year %s: service counts %d colleges, expected %d", year, got.KPIs.Count, want.KPIs.Count)
	}
	switch {
	case got.KPIs.Global == nil && want.KPIs.Global.Valid:
		return fmt.Errorf("year %s: service has no global average, expected %s", year, want.KPIs.GlobalText)
	case got.KPIs.Global != nil && !want.KPIs.Global.Valid:
		return fmt.Errorf("year %s: service global average %.3f, expected none", year, *got.KPIs.Global)
	case got.KPIs.Global != nil && math.Abs(*got.KPIs.Global-want.KPIs.Global.Value) > averageTolerance:
		return fmt.Errorf("year %s: service global average %.3f, expected %.3f", year, *got.KPIs.Global, want.KPIs.Global.Value)
	}
	return nil
}
