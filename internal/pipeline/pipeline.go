package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agroclim/maize-stress/internal/domain"
	"github.com/agroclim/maize-stress/internal/observability"
)

// SeriesProvider loads the cleaned daily temperature series for one
// region × scenario.
type SeriesProvider interface {
	LoadSeries(ctx context.Context, region, scenario string) (domain.TemperatureSeries, error)
}

// TimingProvider supplies observed crop-model timing for one region ×
// cultivar × scenario. ok is false when no observation exists for the
// combination.
type TimingProvider interface {
	ObservedTiming(region, cultivar, scenario string) (obs domain.ObservedTiming, ok bool, err error)
}

// Options fixes the cross-product and the evaluation parameters of a run.
type Options struct {
	Planting  time.Time
	Threshold float64
	Scenarios []string
	Regions   []string
	Cultivars []domain.Cultivar
}

// Pipeline walks scenarios × regions × cultivars, derives stage windows,
// evaluates heat stress per stage, and assembles the flat result table. A
// failed combination is flagged in the table and counted, never fatal.
type Pipeline struct {
	provider SeriesProvider
	timing   TimingProvider // nil disables calibration
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
}

// New creates a Pipeline. Pass a nil TimingProvider to run uncalibrated.
func New(provider SeriesProvider, timing TimingProvider, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		provider: provider,
		timing:   timing,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// Outcome is the assembled output of one run: the flat result table plus
// the per-combination temperature profiles the plot layer renders.
type Outcome struct {
	Results  *ResultSet
	Profiles []Profile
}

// Profile carries the day-after-sowing temperature curves and stage
// boundaries for one combination, from sowing to maturity.
type Profile struct {
	Scenario string
	Region   string
	Cultivar string
	Windows  []domain.StageWindow
	MinT     []float64
	MaxT     []float64
	Observed *domain.ObservedTiming
}

// Run evaluates the full cross-product. It returns an error only on context
// cancellation; per-combination failures are recorded in the outcome.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	defer func() { p.metrics.RunDuration.Set(time.Since(start).Seconds()) }()

	p.logger.Info("analysis started",
		"scenarios", len(p.opts.Scenarios),
		"regions", len(p.opts.Regions),
		"cultivars", len(p.opts.Cultivars),
		"threshold", p.opts.Threshold,
		"planting", p.opts.Planting.Format("2006-01-02"),
	)

	out := &Outcome{Results: &ResultSet{}}
	for _, scenario := range p.opts.Scenarios {
		for _, region := range p.opts.Regions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p.processRegion(ctx, scenario, region, out)
		}
	}

	out.Results.Sort()
	summary := out.Results.Summary()
	p.logger.Info("analysis finished",
		"rows", len(out.Results.Rows),
		"combinations", out.Results.Combinations(),
		"exceedances", summary.Exceedances,
		"insufficient", summary.Insufficient,
		"failures", summary.LoadErrors+summary.ConfigErrors,
	)
	return out, nil
}

func (p *Pipeline) processRegion(ctx context.Context, scenario, region string, out *Outcome) {
	series, err := p.provider.LoadSeries(ctx, region, scenario)
	if err == nil {
		err = series.ValidateContinuity()
	}
	if err != nil {
		p.logger.Error("temperature series unusable, skipping region",
			"region", region, "scenario", scenario, "error", err)
		for _, c := range p.opts.Cultivars {
			p.metrics.CombinationsTotal.Inc()
			p.metrics.CombinationFailures.WithLabelValues(string(StatusLoadError)).Inc()
			out.Results.add(Row{
				Scenario: scenario, Region: region, Cultivar: c.Name,
				Status: StatusLoadError, Note: err.Error(),
			})
		}
		return
	}
	p.metrics.SeriesLoaded.Inc()

	for _, c := range p.opts.Cultivars {
		p.evaluateCombination(scenario, region, c, series, out)
	}
}

func (p *Pipeline) evaluateCombination(scenario, region string, c domain.Cultivar, series domain.TemperatureSeries, out *Outcome) {
	p.metrics.CombinationsTotal.Inc()

	c, observed := p.calibrate(scenario, region, c)

	windows, err := p.stageWindows(c, series)
	if err != nil {
		p.logger.Error("stage window derivation failed",
			"region", region, "scenario", scenario, "cultivar", c.Name, "error", err)
		p.metrics.CombinationFailures.WithLabelValues(string(StatusConfigError)).Inc()
		out.Results.add(Row{
			Scenario: scenario, Region: region, Cultivar: c.Name,
			Status: StatusConfigError, Note: err.Error(),
		})
		return
	}

	for _, w := range windows {
		result, err := domain.EvaluateStage(c.Name, w, series, p.opts.Threshold)
		p.metrics.StageEvaluations.Inc()

		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			p.metrics.InsufficientData.Inc()
			p.logger.Warn("no temperature data in stage window",
				"region", region, "scenario", scenario, "cultivar", c.Name, "stage", w.Stage.String())
			out.Results.add(Row{
				Scenario: scenario, Region: region, Cultivar: c.Name,
				Stage: w.Stage.String(), Status: StatusInsufficientData, Note: err.Error(),
			})
		default:
			if result.ExceedsThreshold {
				p.metrics.ThresholdExceeded.Inc()
			}
			out.Results.add(rowFromResult(result))
		}
	}

	out.Profiles = append(out.Profiles, p.profile(scenario, region, c.Name, windows, series, observed))
}

// calibrate rescales the cultivar's day-count table to observed crop-model
// timing when a TimingProvider is configured and has a row for the
// combination. Calibration problems degrade to the uncalibrated table.
// Thermal cultivars are never day-calibrated; their observed timing is still
// carried for plot annotations.
func (p *Pipeline) calibrate(scenario, region string, c domain.Cultivar) (domain.Cultivar, *domain.ObservedTiming) {
	if p.timing == nil {
		return c, nil
	}
	obs, ok, err := p.timing.ObservedTiming(region, c.Name, scenario)
	if err != nil {
		p.logger.Warn("observed timing lookup failed, using table durations",
			"region", region, "scenario", scenario, "cultivar", c.Name, "error", err)
		return c, nil
	}
	if !ok {
		return c, nil
	}
	if c.Thermal() {
		return c, &obs
	}
	calibrated, err := domain.CalibrateDurations(c, obs)
	if err != nil {
		p.logger.Warn("calibration failed, using table durations",
			"region", region, "scenario", scenario, "cultivar", c.Name, "error", err)
		return c, nil
	}
	return calibrated, &obs
}

// stageWindows picks the thermal-time derivation when any stage in the
// table is expressed as GDD.
func (p *Pipeline) stageWindows(c domain.Cultivar, series domain.TemperatureSeries) ([]domain.StageWindow, error) {
	if c.Thermal() {
		return domain.StageWindowsThermal(p.opts.Planting, c, series)
	}
	return domain.StageWindows(p.opts.Planting, c)
}

func (p *Pipeline) profile(scenario, region, cultivar string, windows []domain.StageWindow, series domain.TemperatureSeries, observed *domain.ObservedTiming) Profile {
	prof := Profile{
		Scenario: scenario,
		Region:   region,
		Cultivar: cultivar,
		Windows:  windows,
		Observed: observed,
	}
	points := series.Slice(p.opts.Planting, windows[len(windows)-1].End)
	prof.MinT = make([]float64, len(points))
	prof.MaxT = make([]float64, len(points))
	for i, pt := range points {
		prof.MinT[i] = pt.MinT
		prof.MaxT[i] = pt.MaxT
	}
	return prof
}
