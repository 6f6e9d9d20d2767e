// Command validate preflights an analysis run: it checks that every
// region × scenario temperature file exists and parses, that each series is
// continuous and covers the growing season, that the cultivar table derives
// valid stage windows, and that the observed-timing workbook (when
// configured) aligns with the configured regions, cultivars, and scenarios.
//
// Configuration comes from the environment, the same variables the analyze
// command reads, so a passing run here means analyze will find its inputs.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/joho/godotenv"

	"github.com/agroclim/maize-stress/internal/adapter/csvdata"
	"github.com/agroclim/maize-stress/internal/adapter/cultivar"
	"github.com/agroclim/maize-stress/internal/config"
	"github.com/agroclim/maize-stress/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if code := run(cfg); code != 0 {
		os.Exit(code)
	}
}

func run(cfg *config.Config) int {
	fmt.Println("=== Maize Heat-Stress Input Validation ===")
	fmt.Println()

	cultivars, err := cultivar.LoadFile(cfg.CultivarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cultivar table %s: %v\n", cfg.CultivarFile, err)
		return 1
	}

	loader := csvdata.NewLoader(cfg.DataDir, cfg.Period)
	series, seriesPhase := loadAllSeries(cfg, loader)

	phases := []*phase{
		seriesPhase,
		validateCoverage(cfg, cultivars, series),
		validateCultivars(cfg, cultivars),
		validateWorkbook(cfg, cultivars),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Inputs: %d regions, %d scenarios, %d cultivars, %d series loaded\n",
		len(cfg.Regions), len(cfg.Scenarios), len(cultivars), len(series))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Data Tree ──
// Every region × scenario must have a parseable, continuous series file.
// Continuity failures surface here because the loader rejects gapped files.

type seriesKey struct{ region, scenario string }

func loadAllSeries(cfg *config.Config, loader *csvdata.Loader) (map[seriesKey]domain.TemperatureSeries, *phase) {
	p := &phase{name: "Phase 1: Data Tree (series files)"}
	series := make(map[seriesKey]domain.TemperatureSeries)

	for _, region := range cfg.Regions {
		for _, scenario := range cfg.Scenarios {
			s, err := loader.LoadSeries(context.Background(), region, scenario)
			if err != nil {
				var cerr *domain.ContinuityError
				switch {
				case errors.Is(err, os.ErrNotExist):
					p.errorf("%s/%s: file missing: %s", region, scenario, loader.SeriesPath(region, scenario))
				case errors.As(err, &cerr):
					p.errorf("%s/%s: %v", region, scenario, cerr)
				default:
					p.errorf("%s/%s: %v", region, scenario, err)
				}
				continue
			}
			series[seriesKey{region, scenario}] = s
		}
	}
	return series, p
}

// ── Phase 2: Season Coverage ──
// Each loaded series must span from planting through the latest estimated
// maturity date of any cultivar. Thermal stages are estimated at a
// conservative daily GDD rate so slow-accumulating seasons still fit.

// conservativeDailyGDD under-estimates daily heat accumulation so the
// season-length estimate errs long.
const conservativeDailyGDD = 10.0

func validateCoverage(cfg *config.Config, cultivars []domain.Cultivar, series map[seriesKey]domain.TemperatureSeries) *phase {
	p := &phase{name: "Phase 2: Season Coverage"}

	maxSeason := 0
	for _, c := range cultivars {
		days := 0
		for _, st := range domain.Stages() {
			d := c.Durations[st]
			if d.Thermal() {
				days += int(math.Ceil(d.GDD / conservativeDailyGDD))
			} else {
				days += d.Days
			}
		}
		if days > maxSeason {
			maxSeason = days
		}
	}
	seasonEnd := cfg.PlantingDate.AddDate(0, 0, maxSeason)

	for key, s := range series {
		if len(s.Points) == 0 {
			p.errorf("%s/%s: series is empty", key.region, key.scenario)
			continue
		}
		first := s.Points[0].Date
		last := s.Points[len(s.Points)-1].Date
		if first.After(cfg.PlantingDate) {
			p.errorf("%s/%s: series starts %s, after planting %s",
				key.region, key.scenario, first.Format("2006-01-02"), cfg.PlantingDate.Format("2006-01-02"))
		}
		if last.Before(seasonEnd) {
			p.errorf("%s/%s: series ends %s, before season end %s",
				key.region, key.scenario, last.Format("2006-01-02"), seasonEnd.Format("2006-01-02"))
		}
	}
	return p
}

// ── Phase 3: Cultivar Table ──
// Every cultivar must derive a contiguous set of stage windows. Thermal-time
// entries are exercised against each loaded series during Phase 2's season,
// but window derivation itself only needs the durations here.

func validateCultivars(cfg *config.Config, cultivars []domain.Cultivar) *phase {
	p := &phase{name: "Phase 3: Cultivar Table (stage windows)"}

	if len(cultivars) == 0 {
		p.errorf("cultivar table is empty")
		return p
	}

	for _, c := range cultivars {
		if c.Thermal() {
			// Thermal cultivars need a series; derivation is checked per
			// combination at run time. Only the table shape is checked here.
			continue
		}
		windows, err := domain.StageWindows(cfg.PlantingDate, c)
		if err != nil {
			p.errorf("%s: %v", c.Name, err)
			continue
		}
		for i := 1; i < len(windows); i++ {
			if !windows[i].Start.Equal(windows[i-1].End) {
				p.errorf("%s: %s does not begin where %s ends", c.Name, windows[i].Stage, windows[i-1].Stage)
			}
		}
	}
	return p
}

// ── Phase 4: Workbook Alignment ──
// When a workbook is configured, every region × day-count cultivar ×
// scenario should carry an observed timing, and each timing must calibrate
// cleanly.

func validateWorkbook(cfg *config.Config, cultivars []domain.Cultivar) *phase {
	p := &phase{name: "Phase 4: Workbook Alignment (timings)"}

	if cfg.WorkbookPath == "" {
		// Calibration disabled; nothing to align.
		return p
	}

	wb, err := cultivar.OpenWorkbook(cfg.WorkbookPath, cfg.Period)
	if err != nil {
		p.errorf("open workbook %s: %v", cfg.WorkbookPath, err)
		return p
	}

	for _, region := range cfg.Regions {
		for _, c := range cultivars {
			if c.Thermal() {
				// Thermal cultivars are never day-calibrated; workbook rows
				// for them only annotate plots.
				continue
			}
			for _, scenario := range cfg.Scenarios {
				obs, ok, err := wb.ObservedTiming(region, c.Name, scenario)
				if err != nil {
					p.errorf("%s/%s/%s: %v", region, c.Name, scenario, err)
					continue
				}
				if !ok {
					p.errorf("%s/%s/%s: no observed timing in workbook", region, c.Name, scenario)
					continue
				}
				if _, err := domain.CalibrateDurations(c, obs); err != nil {
					p.errorf("%s/%s/%s: calibration: %v", region, c.Name, scenario, err)
				}
			}
		}
	}
	return p
}
