package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientData marks a stage window with no overlapping temperature
// points. Callers match it with errors.Is.
var ErrInsufficientData = errors.New("insufficient temperature data")

// MissingStageError reports a cultivar duration table with no usable entry
// for a growth stage. It is a configuration error: the analysis cannot
// proceed for that cultivar.
type MissingStageError struct {
	Cultivar string
	Stage    Stage
}

func (e *MissingStageError) Error() string {
	return fmt.Sprintf("cultivar %s: no duration configured for stage %s", e.Cultivar, e.Stage)
}

// InsufficientDataError reports a stage window that overlaps zero points of
// the temperature series. It wraps ErrInsufficientData.
type InsufficientDataError struct {
	Region   string
	Scenario string
	Stage    Stage
	Start    time.Time
	End      time.Time
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s/%s: no temperature data for stage %s in [%s, %s)",
		e.Region, e.Scenario, e.Stage,
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// ContinuityError reports a gap, duplicate, or out-of-order date in an input
// temperature series.
type ContinuityError struct {
	Region   string
	Scenario string
	At       time.Time
	Detail   string
}

func (e *ContinuityError) Error() string {
	return fmt.Sprintf("%s/%s: discontinuous series at %s: %s",
		e.Region, e.Scenario, e.At.Format("2006-01-02"), e.Detail)
}
