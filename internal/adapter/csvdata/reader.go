// Package csvdata reads the projected daily temperature CSVs produced by the
// upstream climate downscaling and writes the flat result table.
package csvdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agroclim/maize-stress/internal/domain"
)

// Loader reads daily temperature series from a directory tree laid out
// <root>/<region>/<scenario label>/daily_averages.csv, where the scenario
// label is the parenthesized form, e.g. "(2071-2090)(ssp245)".
// It implements pipeline.SeriesProvider.
type Loader struct {
	root   string
	period string
}

// NewLoader creates a Loader rooted at dir for the given projection period.
func NewLoader(dir, period string) *Loader {
	return &Loader{root: dir, period: period}
}

// SeriesPath returns the CSV path for one region × scenario.
func (l *Loader) SeriesPath(region, scenario string) string {
	return filepath.Join(l.root, region, domain.ScenarioLabel(l.period, scenario), "daily_averages.csv")
}

// LoadSeries reads and validates one region × scenario series. Gaps,
// duplicates, or out-of-order dates surface as a *domain.ContinuityError.
func (l *Loader) LoadSeries(ctx context.Context, region, scenario string) (domain.TemperatureSeries, error) {
	if err := ctx.Err(); err != nil {
		return domain.TemperatureSeries{}, err
	}

	path := l.SeriesPath(region, scenario)
	f, err := os.Open(path)
	if err != nil {
		return domain.TemperatureSeries{}, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return domain.TemperatureSeries{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return domain.TemperatureSeries{}, fmt.Errorf("%s: no data rows", path)
	}

	cols, err := columnIndex(records[0], "date", "avg_mint", "avg_maxt")
	if err != nil {
		return domain.TemperatureSeries{}, fmt.Errorf("%s: %w", path, err)
	}

	series := domain.TemperatureSeries{
		Region:   region,
		Scenario: scenario,
		Points:   make([]domain.TemperaturePoint, 0, len(records)-1),
	}
	for i, rec := range records[1:] {
		point, err := parsePoint(rec, cols)
		if err != nil {
			return domain.TemperatureSeries{}, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		series.Points = append(series.Points, point)
	}

	if err := series.ValidateContinuity(); err != nil {
		return domain.TemperatureSeries{}, err
	}
	return series, nil
}

// columnIndex maps required header names to their column positions.
// Header matching is case-insensitive and whitespace-tolerant, matching the
// upstream files which are inconsistent about both.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

func parsePoint(rec []string, cols map[string]int) (domain.TemperaturePoint, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[cols["date"]]))
	if err != nil {
		return domain.TemperaturePoint{}, fmt.Errorf("bad date: %w", err)
	}
	minT, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["avg_mint"]]), 64)
	if err != nil {
		return domain.TemperaturePoint{}, fmt.Errorf("bad avg_mint: %w", err)
	}
	maxT, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["avg_maxt"]]), 64)
	if err != nil {
		return domain.TemperaturePoint{}, fmt.Errorf("bad avg_maxt: %w", err)
	}
	return domain.TemperaturePoint{Date: date.UTC(), MinT: minT, MaxT: maxT}, nil
}
