package domain

import "fmt"

// Stage identifies one maize growth stage. The zero value is emergence;
// ordering follows the biological sequence.
type Stage int

const (
	StageEmergence Stage = iota
	StageVegetative
	StageFlowering
	StageGrainFill
	StageMaturity
)

var stageNames = [...]string{
	StageEmergence:  "emergence",
	StageVegetative: "vegetative",
	StageFlowering:  "flowering",
	StageGrainFill:  "grain_fill",
	StageMaturity:   "maturity",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// HeatSensitive reports whether daily maxima above the physiological
// threshold during this stage are agronomically damaging.
func (s Stage) HeatSensitive() bool {
	return s == StageFlowering || s == StageGrainFill
}

// Stages returns all growth stages in biological order.
func Stages() []Stage {
	return []Stage{StageEmergence, StageVegetative, StageFlowering, StageGrainFill, StageMaturity}
}

// ParseStage converts a stage name to its Stage value.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown growth stage %q", name)
}

// StageDuration is the thermal duration of one stage, expressed either as a
// fixed day count or as accumulated thermal time (GDD above the cultivar's
// base temperature). Exactly one of the two fields is set.
type StageDuration struct {
	Days int
	GDD  float64
}

// Thermal reports whether the duration is expressed as thermal time.
func (d StageDuration) Thermal() bool { return d.GDD > 0 }

// Cultivar holds a named cultivar's stage duration table. BaseTemp is the
// base temperature for GDD accumulation and is only consulted for thermal
// durations.
type Cultivar struct {
	Name      string
	BaseTemp  float64
	Durations map[Stage]StageDuration
}

// Thermal reports whether any stage in the table is expressed as thermal
// time. Thermal cultivars derive windows with StageWindowsThermal and do not
// take day-count calibration.
func (c Cultivar) Thermal() bool {
	for _, d := range c.Durations {
		if d.Thermal() {
			return true
		}
	}
	return false
}

// ScenarioLabel formats the parenthesized period/scenario label used by the
// upstream crop-model outputs for directory names and workbook rows, e.g.
// ScenarioLabel("2071-2090", "ssp245") == "(2071-2090)(ssp245)".
func ScenarioLabel(period, scenario string) string {
	return "(" + period + ")(" + scenario + ")"
}
