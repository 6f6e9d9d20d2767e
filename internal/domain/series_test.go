package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2071, 5, 22, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// makeSeries builds a continuous series starting at day(0) with the given
// daily maxima; minima are 12 °C below maxima.
func makeSeries(region, scenario string, maxima ...float64) TemperatureSeries {
	points := make([]TemperaturePoint, len(maxima))
	for i, m := range maxima {
		points[i] = TemperaturePoint{Date: day(i), MinT: m - 12, MaxT: m}
	}
	return TemperatureSeries{Region: region, Scenario: scenario, Points: points}
}

func TestValidateContinuity(t *testing.T) {
	t.Run("continuous series", func(t *testing.T) {
		s := makeSeries("Dezful", "ssp245", 30, 31, 32, 33)
		require.NoError(t, s.ValidateContinuity())
	})

	t.Run("empty and single-point series", func(t *testing.T) {
		assert.NoError(t, TemperatureSeries{}.ValidateContinuity())
		assert.NoError(t, makeSeries("Dezful", "ssp245", 30).ValidateContinuity())
	})

	t.Run("gap", func(t *testing.T) {
		s := makeSeries("Dezful", "ssp245", 30, 31)
		s.Points = append(s.Points, TemperaturePoint{Date: day(3), MaxT: 32})

		err := s.ValidateContinuity()
		require.Error(t, err)

		var cerr *ContinuityError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Dezful", cerr.Region)
		assert.Equal(t, day(3), cerr.At)
		assert.Contains(t, cerr.Detail, "gap")
	})

	t.Run("duplicate date", func(t *testing.T) {
		s := makeSeries("Dezful", "ssp585", 30)
		s.Points = append(s.Points, TemperaturePoint{Date: day(0), MaxT: 31})

		var cerr *ContinuityError
		require.ErrorAs(t, s.ValidateContinuity(), &cerr)
		assert.Contains(t, cerr.Detail, "not strictly increasing")
	})

	t.Run("out of order", func(t *testing.T) {
		s := makeSeries("Dezful", "ssp585", 30, 31)
		s.Points = append(s.Points, TemperaturePoint{Date: day(0), MaxT: 29})

		var cerr *ContinuityError
		require.ErrorAs(t, s.ValidateContinuity(), &cerr)
	})
}

func TestSlice(t *testing.T) {
	s := makeSeries("Ilam", "ssp245", 30, 31, 32, 33, 34)

	t.Run("interior window is half-open", func(t *testing.T) {
		got := s.Slice(day(1), day(4))
		require.Len(t, got, 3)
		assert.Equal(t, 31.0, got[0].MaxT)
		assert.Equal(t, 33.0, got[2].MaxT)
	})

	t.Run("window past series end", func(t *testing.T) {
		assert.Empty(t, s.Slice(day(10), day(20)))
	})

	t.Run("window before series start", func(t *testing.T) {
		assert.Empty(t, s.Slice(day(-10), day(0)))
	})

	t.Run("window covering entire series", func(t *testing.T) {
		assert.Len(t, s.Slice(day(-5), day(50)), 5)
	})
}
