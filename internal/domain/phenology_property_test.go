package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// cultivarFromDays builds a day-count cultivar from five generated durations.
func cultivarFromDays(days [5]int) Cultivar {
	c := Cultivar{Name: "gen", Durations: make(map[Stage]StageDuration, 5)}
	for i, stage := range Stages() {
		c.Durations[stage] = StageDuration{Days: days[i]}
	}
	return c
}

func genDays() gopter.Gen {
	return gen.IntRange(1, 60)
}

// TestStageWindows_PropertyBased verifies the structural invariants of
// derived stage windows for arbitrary duration tables: windows are ordered
// by stage, contiguous, non-overlapping, and their union spans exactly from
// planting to planting plus the table's total days.
func TestStageWindows_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	planting := time.Date(2071, 5, 22, 0, 0, 0, 0, time.UTC)

	properties.Property("windows are contiguous and span planting to maturity", prop.ForAll(
		func(d1, d2, d3, d4, d5 int) bool {
			days := [5]int{d1, d2, d3, d4, d5}
			windows, err := StageWindows(planting, cultivarFromDays(days))
			if err != nil {
				return false
			}
			if len(windows) != 5 || !windows[0].Start.Equal(planting) {
				return false
			}
			total := 0
			for i, w := range windows {
				if w.Stage != Stages()[i] || w.Days() != days[i] {
					return false
				}
				if i > 0 && !w.Start.Equal(windows[i-1].End) {
					return false
				}
				total += days[i]
			}
			return windows[4].End.Equal(planting.AddDate(0, 0, total))
		},
		genDays(), genDays(), genDays(), genDays(), genDays(),
	))

	properties.Property("calibration preserves contiguity and hits observed boundaries", prop.ForAll(
		func(d1, d2, d3, d4, d5, flowering, span int) bool {
			days := [5]int{d1, d2, d3, d4, d5}
			obs := ObservedTiming{FloweringDAS: float64(flowering), MaturityDAS: float64(flowering + span)}

			calibrated, err := CalibrateDurations(cultivarFromDays(days), obs)
			if err != nil {
				return false
			}
			windows, err := StageWindows(planting, calibrated)
			if err != nil {
				return false
			}
			for i := 1; i < len(windows); i++ {
				if !windows[i].Start.Equal(windows[i-1].End) {
					return false
				}
			}
			return windows[2].Start.Equal(planting.AddDate(0, 0, flowering)) &&
				windows[4].End.Equal(planting.AddDate(0, 0, flowering+span))
		},
		genDays(), genDays(), genDays(), genDays(), genDays(),
		gen.IntRange(10, 90), gen.IntRange(20, 120),
	))

	properties.TestingRun(t)
}
