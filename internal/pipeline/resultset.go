package pipeline

import (
	"sort"

	"github.com/agroclim/maize-stress/internal/domain"
)

// Status classifies one result table row.
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
	StatusLoadError        Status = "load_error"
	StatusConfigError      Status = "config_error"
)

// Row is one line of the flat result table. Stage is empty for
// combination-level failures (load or configuration errors), where no stage
// was ever evaluated.
type Row struct {
	Scenario string
	Region   string
	Cultivar string
	Stage    string
	MeanMax  float64
	PeakMax  float64
	Days     int
	Exceeds  bool
	Status   Status
	Note     string
}

func rowFromResult(r domain.StressResult) Row {
	return Row{
		Scenario: r.Scenario,
		Region:   r.Region,
		Cultivar: r.Cultivar,
		Stage:    r.Stage.String(),
		MeanMax:  r.MeanMax,
		PeakMax:  r.PeakMax,
		Days:     r.Days,
		Exceeds:  r.ExceedsThreshold,
		Status:   StatusOK,
	}
}

// ResultSet accumulates the rows of one analysis run.
type ResultSet struct {
	Rows []Row
}

func (rs *ResultSet) add(r Row) {
	rs.Rows = append(rs.Rows, r)
}

// Sort orders rows by scenario, region, cultivar, then biological stage
// sequence. Combination-level failure rows sort before stage rows of the
// same combination.
func (rs *ResultSet) Sort() {
	sort.SliceStable(rs.Rows, func(i, j int) bool {
		a, b := rs.Rows[i], rs.Rows[j]
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Cultivar != b.Cultivar {
			return a.Cultivar < b.Cultivar
		}
		return stageRank(a.Stage) < stageRank(b.Stage)
	})
}

func stageRank(name string) int {
	if name == "" {
		return -1
	}
	s, err := domain.ParseStage(name)
	if err != nil {
		return len(domain.Stages())
	}
	return int(s)
}

// Combinations counts distinct scenario × region × cultivar keys present in
// the table.
func (rs *ResultSet) Combinations() int {
	seen := make(map[[3]string]struct{}, len(rs.Rows))
	for _, r := range rs.Rows {
		seen[[3]string{r.Scenario, r.Region, r.Cultivar}] = struct{}{}
	}
	return len(seen)
}

// HeatSensitive returns the rows for heat-sensitive stages only (flowering
// and grain filling).
func (rs *ResultSet) HeatSensitive() []Row {
	var rows []Row
	for _, r := range rs.Rows {
		s, err := domain.ParseStage(r.Stage)
		if err != nil {
			continue
		}
		if s.HeatSensitive() {
			rows = append(rows, r)
		}
	}
	return rows
}

// Summary tallies row outcomes for logging.
type Summary struct {
	OK           int
	Exceedances  int
	Insufficient int
	LoadErrors   int
	ConfigErrors int
}

func (rs *ResultSet) Summary() Summary {
	var s Summary
	for _, r := range rs.Rows {
		switch r.Status {
		case StatusOK:
			s.OK++
			if r.Exceeds {
				s.Exceedances++
			}
		case StatusInsufficientData:
			s.Insufficient++
		case StatusLoadError:
			s.LoadErrors++
		case StatusConfigError:
			s.ConfigErrors++
		}
	}
	return s
}
