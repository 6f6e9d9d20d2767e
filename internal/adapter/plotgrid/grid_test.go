package plotgrid

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonCurve(scenario string, days int, offset float64) Curve {
	minT := make([]float64, days)
	maxT := make([]float64, days)
	for i := range maxT {
		phase := float64(i) / float64(days) * math.Pi
		maxT[i] = 28 + offset + 8*math.Sin(phase)
		minT[i] = maxT[i] - 12
	}
	return Curve{
		Scenario:     scenario,
		MinT:         minT,
		MaxT:         maxT,
		FloweringDAS: 60,
		MaturityDAS:  days - 5,
		FloweringSD:  1.7,
	}
}

func testCell(region, cultivar string) Cell {
	return Cell{
		Region:   region,
		Cultivar: cultivar,
		Curves: []Curve{
			seasonCurve("ssp245", 120, 0),
			seasonCurve("ssp585", 115, 2.5),
		},
	}
}

func TestTemperatureRange(t *testing.T) {
	lo, hi := TemperatureRange(testCell("Dezful", "KSC260"))
	assert.InDelta(t, 16.0-2, lo, 0.5) // min of MinT minus padding
	assert.InDelta(t, 38.5+2, hi, 0.5) // max of hotter scenario plus padding
	assert.Less(t, lo, hi)
}

func TestRender(t *testing.T) {
	cells := [][]Cell{
		{testCell("Dezful", "KSC260"), testCell("Dezful", "KSC704")},
		{testCell("Shushtar", "KSC260"), testCell("Shushtar", "KSC704")},
	}
	var flat []Cell
	for _, row := range cells {
		flat = append(flat, row...)
	}
	yMin, yMax := TemperatureRange(flat...)

	path := filepath.Join(t.TempDir(), "plot_grid_1.png")
	require.NoError(t, Render(path, Figure{Cells: cells, YMin: yMin, YMax: yMax}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRender_EmptyFigure(t *testing.T) {
	err := Render(filepath.Join(t.TempDir(), "x.png"), Figure{})
	require.Error(t, err)
}
