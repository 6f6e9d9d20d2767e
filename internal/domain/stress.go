package domain

import "time"

// StressResult summarizes daily maximum temperatures within one stage window
// for one region × cultivar × scenario. When Insufficient is set the numeric
// fields are meaningless and must not be reported.
type StressResult struct {
	Region   string
	Cultivar string
	Scenario string
	Stage    Stage

	MeanMax float64 // mean of daily maxima over the window
	PeakMax float64 // highest daily maximum in the window
	Days    int     // number of series points in the window

	ExceedsThreshold bool
	Insufficient     bool

	EvaluatedAt time.Time
}

// EvaluateStage computes mean and peak daily maximum temperature over the
// series points inside the window and flags threshold exceedance
// (strictly greater than threshold). A window overlapping zero points
// returns a result with Insufficient set and an *InsufficientDataError; no
// numeric summary is produced in that case.
func EvaluateStage(cultivar string, w StageWindow, series TemperatureSeries, threshold float64) (StressResult, error) {
	result := StressResult{
		Region:      series.Region,
		Cultivar:    cultivar,
		Scenario:    series.Scenario,
		Stage:       w.Stage,
		EvaluatedAt: clock.Now(),
	}

	points := series.Slice(w.Start, w.End)
	if len(points) == 0 {
		result.Insufficient = true
		return result, &InsufficientDataError{
			Region:   series.Region,
			Scenario: series.Scenario,
			Stage:    w.Stage,
			Start:    w.Start,
			End:      w.End,
		}
	}

	sum := 0.0
	peak := points[0].MaxT
	for _, p := range points {
		sum += p.MaxT
		if p.MaxT > peak {
			peak = p.MaxT
		}
	}

	result.MeanMax = sum / float64(len(points))
	result.PeakMax = peak
	result.Days = len(points)
	result.ExceedsThreshold = peak > threshold
	return result, nil
}
