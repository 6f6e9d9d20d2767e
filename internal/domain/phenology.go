package domain

import (
	"fmt"
	"math"
	"time"
)

// StageWindow is the calendar interval of one growth stage for one cultivar
// at one planting date. Start is inclusive, End exclusive; a following
// stage starts exactly at End.
type StageWindow struct {
	Stage Stage
	Start time.Time
	End   time.Time
}

// Days returns the window length in whole days.
func (w StageWindow) Days() int {
	return int(w.End.Sub(w.Start) / (24 * time.Hour))
}

// StageWindows derives the calendar windows of all growth stages from a
// planting date and a fixed day-count duration table. Windows are
// contiguous and ordered; their union spans planting → maturity. A stage
// without a positive day count yields a *MissingStageError; thermal-time
// tables must go through StageWindowsThermal.
func StageWindows(planting time.Time, c Cultivar) ([]StageWindow, error) {
	windows := make([]StageWindow, 0, len(stageNames))
	start := planting
	for _, stage := range Stages() {
		d, ok := c.Durations[stage]
		if !ok || (d.Days <= 0 && !d.Thermal()) {
			return nil, &MissingStageError{Cultivar: c.Name, Stage: stage}
		}
		if d.Thermal() {
			return nil, fmt.Errorf("cultivar %s: stage %s uses thermal time; derive windows with StageWindowsThermal", c.Name, stage)
		}
		end := start.AddDate(0, 0, d.Days)
		windows = append(windows, StageWindow{Stage: stage, Start: start, End: end})
		start = end
	}
	return windows, nil
}

// StageWindowsThermal derives stage windows from a duration table that may
// mix fixed day counts with thermal-time requirements. Thermal stages
// accumulate GDD = max(0, (Tmin+Tmax)/2 − BaseTemp) per day over the series
// and end the day after the requirement is met. The series must cover every
// thermal stage; running out of data yields an error wrapping
// ErrInsufficientData.
func StageWindowsThermal(planting time.Time, c Cultivar, series TemperatureSeries) ([]StageWindow, error) {
	windows := make([]StageWindow, 0, len(stageNames))
	start := planting
	for _, stage := range Stages() {
		d, ok := c.Durations[stage]
		if !ok || (d.Days <= 0 && !d.Thermal()) {
			return nil, &MissingStageError{Cultivar: c.Name, Stage: stage}
		}

		var end time.Time
		if d.Thermal() {
			var err error
			end, err = thermalStageEnd(start, d.GDD, c, stage, series)
			if err != nil {
				return nil, err
			}
		} else {
			end = start.AddDate(0, 0, d.Days)
		}

		windows = append(windows, StageWindow{Stage: stage, Start: start, End: end})
		start = end
	}
	return windows, nil
}

// thermalStageEnd walks the series from start, accumulating degree-days
// until the requirement is reached. The returned end is exclusive.
func thermalStageEnd(start time.Time, required float64, c Cultivar, stage Stage, series TemperatureSeries) (time.Time, error) {
	points := series.Slice(start, maxDate)
	if len(points) == 0 || !points[0].Date.Equal(start) {
		return time.Time{}, fmt.Errorf("cultivar %s: series %s/%s does not cover stage %s from %s: %w",
			c.Name, series.Region, series.Scenario, stage, start.Format("2006-01-02"), ErrInsufficientData)
	}

	accumulated := 0.0
	for _, p := range points {
		gdd := (p.MinT+p.MaxT)/2 - c.BaseTemp
		if gdd > 0 {
			accumulated += gdd
		}
		if accumulated >= required {
			return p.Date.AddDate(0, 0, 1), nil
		}
	}
	return time.Time{}, fmt.Errorf("cultivar %s: series %s/%s ends %.1f GDD short of stage %s requirement: %w",
		c.Name, series.Region, series.Scenario, required-accumulated, stage, ErrInsufficientData)
}

// maxDate is an open upper bound for Slice when walking to the series end.
var maxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// ObservedTiming carries crop-model mean timing for one region × cultivar ×
// scenario, in days after sowing.
type ObservedTiming struct {
	FloweringDAS float64
	MaturityDAS  float64
	FloweringSD  float64
}

// CalibrateDurations rescales a fixed day-count duration table so the
// cumulative days to the start of flowering match the observed flowering
// DAS and the cumulative days to maturity match the observed maturity DAS.
// Stages are scaled proportionally within the pre- and post-flowering
// groups; rounding remainders land on the last stage of each group so the
// stage boundaries hit the observed values exactly. The input cultivar is
// not mutated. Thermal-time tables cannot be calibrated: their stage
// boundaries follow accumulated GDD, not a day-count table.
func CalibrateDurations(c Cultivar, obs ObservedTiming) (Cultivar, error) {
	for _, stage := range Stages() {
		if c.Durations[stage].Thermal() {
			return Cultivar{}, fmt.Errorf("cultivar %s: stage %s uses thermal time; day-count calibration does not apply", c.Name, stage)
		}
	}
	if obs.FloweringDAS <= 0 || obs.MaturityDAS <= obs.FloweringDAS {
		return Cultivar{}, fmt.Errorf("cultivar %s: observed timing flowering=%.1f maturity=%.1f is not ordered",
			c.Name, obs.FloweringDAS, obs.MaturityDAS)
	}

	pre := []Stage{StageEmergence, StageVegetative}
	post := []Stage{StageFlowering, StageGrainFill, StageMaturity}

	targetPre := int(math.Round(obs.FloweringDAS))
	targetPost := int(math.Round(obs.MaturityDAS)) - targetPre
	if targetPre < len(pre) || targetPost < len(post) {
		return Cultivar{}, fmt.Errorf("cultivar %s: observed timing too short to fit all stages", c.Name)
	}

	out := Cultivar{Name: c.Name, BaseTemp: c.BaseTemp, Durations: make(map[Stage]StageDuration, len(c.Durations))}
	if err := scaleGroup(c, out.Durations, pre, targetPre); err != nil {
		return Cultivar{}, err
	}
	if err := scaleGroup(c, out.Durations, post, targetPost); err != nil {
		return Cultivar{}, err
	}
	return out, nil
}

// scaleGroup distributes target days over the group proportionally to the
// original day counts, assigning the remainder to the final stage.
func scaleGroup(c Cultivar, dst map[Stage]StageDuration, group []Stage, target int) error {
	total := 0
	for _, stage := range group {
		d, ok := c.Durations[stage]
		if !ok || d.Days <= 0 {
			return &MissingStageError{Cultivar: c.Name, Stage: stage}
		}
		total += d.Days
	}

	assigned := 0
	for i, stage := range group {
		days := target - assigned
		if i < len(group)-1 {
			days = int(math.Round(float64(c.Durations[stage].Days) / float64(total) * float64(target)))
			if days < 1 {
				days = 1
			}
			if remaining := target - assigned - days; remaining < len(group)-1-i {
				days = target - assigned - (len(group) - 1 - i)
			}
		}
		dst[stage] = StageDuration{Days: days}
		assigned += days
	}
	return nil
}
