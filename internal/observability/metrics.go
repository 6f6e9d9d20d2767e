package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for one analysis run.
// Each Metrics instance carries its own registry; the run snapshot is
// exported with WriteTextfile rather than scraped, since the analysis is a
// one-shot batch process with no network surface.
type Metrics struct {
	Registry *prometheus.Registry

	SeriesLoaded        prometheus.Counter
	CombinationsTotal   prometheus.Counter
	CombinationFailures *prometheus.CounterVec // label: reason={load_error,config_error}
	StageEvaluations    prometheus.Counter
	ThresholdExceeded   prometheus.Counter
	InsufficientData    prometheus.Counter
	RunDuration         prometheus.Gauge
}

// NewMetrics creates all run metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SeriesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "series_loaded_total",
			Help:      "Temperature series successfully loaded.",
		}),
		CombinationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "combinations_total",
			Help:      "Region x cultivar x scenario combinations evaluated.",
		}),
		CombinationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "combination_failures_total",
			Help:      "Combinations that produced no stage results, by reason.",
		}, []string{"reason"}),
		StageEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "stage_evaluations_total",
			Help:      "Stage windows evaluated against a temperature series.",
		}),
		ThresholdExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "threshold_exceedances_total",
			Help:      "Stage windows whose peak daily maximum exceeded the threshold.",
		}),
		InsufficientData: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maize_stress",
			Name:      "insufficient_data_total",
			Help:      "Stage windows with zero overlapping temperature points.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "maize_stress",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the analysis run.",
		}),
	}

	m.Registry.MustRegister(
		m.SeriesLoaded,
		m.CombinationsTotal,
		m.CombinationFailures,
		m.StageEvaluations,
		m.ThresholdExceeded,
		m.InsufficientData,
		m.RunDuration,
	)

	return m
}
