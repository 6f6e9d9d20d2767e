package domain

import "time"

// TemperaturePoint is one day of a temperature series.
type TemperaturePoint struct {
	Date time.Time
	MinT float64
	MaxT float64
}

// TemperatureSeries holds the cleaned daily temperature record for one
// region × scenario. Dates are UTC midnights, strictly increasing with a
// step of exactly one day; ValidateContinuity enforces the invariant.
type TemperatureSeries struct {
	Region   string
	Scenario string
	Points   []TemperaturePoint
}

// Slice returns the points in the half-open window [from, to).
// The series is date-ordered, so the result is a contiguous subslice.
func (s TemperatureSeries) Slice(from, to time.Time) []TemperaturePoint {
	lo := len(s.Points)
	for i, p := range s.Points {
		if !p.Date.Before(from) {
			lo = i
			break
		}
	}
	hi := lo
	for hi < len(s.Points) && s.Points[hi].Date.Before(to) {
		hi++
	}
	return s.Points[lo:hi]
}

// ValidateContinuity verifies that dates are strictly increasing with no
// gaps. It returns a *ContinuityError describing the first violation.
func (s TemperatureSeries) ValidateContinuity() error {
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1].Date, s.Points[i].Date
		step := cur.Sub(prev)
		switch {
		case step == 24*time.Hour:
			continue
		case step <= 0:
			return &ContinuityError{
				Region:   s.Region,
				Scenario: s.Scenario,
				At:       cur,
				Detail:   "dates not strictly increasing",
			}
		default:
			return &ContinuityError{
				Region:   s.Region,
				Scenario: s.Scenario,
				At:       cur,
				Detail:   "gap after " + prev.Format("2006-01-02"),
			}
		}
	}
	return nil
}
