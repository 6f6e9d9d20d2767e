// Package plotgrid renders comparison grids of projected temperatures over
// the maize growing season, one subplot per region × cultivar with one
// curve pair per scenario and markers at flowering and maturity.
package plotgrid

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Curve is one scenario's temperature trace for a subplot, indexed by day
// after sowing starting at 1.
type Curve struct {
	Scenario     string
	MinT         []float64
	MaxT         []float64
	FloweringDAS int
	MaturityDAS  int
	FloweringSD  float64
}

// Cell is one subplot: a region × cultivar with its per-scenario curves.
type Cell struct {
	Region   string
	Cultivar string
	Curves   []Curve
}

// Figure is a grid of subplots sharing one y-range.
type Figure struct {
	Cells [][]Cell
	YMin  float64
	YMax  float64
}

// TemperatureRange returns the min/max across all curves of all cells,
// padded by 2 °C so lines clear the plot frame. Pass the cells of every
// figure to share one range across figures.
func TemperatureRange(cells ...Cell) (float64, float64) {
	lo, hi := 0.0, 0.0
	first := true
	for _, c := range cells {
		for _, curve := range c.Curves {
			for _, vs := range [][]float64{curve.MinT, curve.MaxT} {
				for _, v := range vs {
					if first || v < lo {
						lo = v
					}
					if first || v > hi {
						hi = v
					}
					first = false
				}
			}
		}
	}
	return lo - 2, hi + 2
}

// Render draws the figure and writes it as a PNG.
func Render(path string, fig Figure) error {
	rows := len(fig.Cells)
	if rows == 0 {
		return fmt.Errorf("empty figure")
	}
	cols := 0
	for _, r := range fig.Cells {
		if len(r) > cols {
			cols = len(r)
		}
	}

	plots := make([][]*plot.Plot, rows)
	for i, row := range fig.Cells {
		plots[i] = make([]*plot.Plot, cols)
		for j, cell := range row {
			p, err := subplot(cell, fig.YMin, fig.YMax)
			if err != nil {
				return fmt.Errorf("subplot %s/%s: %w", cell.Region, cell.Cultivar, err)
			}
			plots[i][j] = p
		}
	}

	img := vgimg.New(vg.Length(cols)*7*vg.Inch, vg.Length(rows)*4*vg.Inch)
	canvases := plot.Align(plots, draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}, draw.New(img))

	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write png: %w", err)
	}
	return f.Close()
}

func subplot(cell Cell, yMin, yMax float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", cell.Region, cell.Cultivar)
	p.X.Label.Text = "Days After Sowing"
	p.Y.Label.Text = "Temperature (°C)"
	p.Y.Min, p.Y.Max = yMin, yMax
	p.X.Min = 0
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	xMax := 0.0
	for i, curve := range cell.Curves {
		if err := addCurve(p, curve, i, yMin, yMax); err != nil {
			return nil, err
		}
		if n := float64(len(curve.MaxT)); n > xMax {
			xMax = n
		}
	}
	p.X.Max = xMax + 5
	return p, nil
}

func addCurve(p *plot.Plot, curve Curve, idx int, yMin, yMax float64) error {
	maxLine, err := plotter.NewLine(dayXYs(curve.MaxT))
	if err != nil {
		return err
	}
	maxLine.Color = plotutil.Color(2 * idx)
	maxLine.Dashes = plotutil.Dashes(idx)
	p.Add(maxLine)
	p.Legend.Add(fmt.Sprintf("Max Temp (%s)", curve.Scenario), maxLine)

	minLine, err := plotter.NewLine(dayXYs(curve.MinT))
	if err != nil {
		return err
	}
	minLine.Color = plotutil.Color(2*idx + 1)
	minLine.Dashes = plotutil.Dashes(idx)
	p.Add(minLine)
	p.Legend.Add(fmt.Sprintf("Min Temp (%s)", curve.Scenario), minLine)

	if curve.FloweringDAS > 0 {
		label := fmt.Sprintf("Flowering (%s): %d", curve.Scenario, curve.FloweringDAS)
		if curve.FloweringSD > 0 {
			label = fmt.Sprintf("%s ± %.1f", label, curve.FloweringSD)
		}
		if err := addMarker(p, float64(curve.FloweringDAS), yMin, yMax, label, maxLine); err != nil {
			return err
		}
	}
	if curve.MaturityDAS > 0 {
		label := fmt.Sprintf("Maturity (%s): %d", curve.Scenario, curve.MaturityDAS)
		if err := addMarker(p, float64(curve.MaturityDAS), yMin, yMax, label, maxLine); err != nil {
			return err
		}
	}
	return nil
}

// addMarker draws a dashed vertical line at x with a legend entry, reusing
// the scenario's color.
func addMarker(p *plot.Plot, x, yMin, yMax float64, label string, style *plotter.Line) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
	if err != nil {
		return err
	}
	line.Color = style.Color
	line.Dashes = []vg.Length{vg.Points(2), vg.Points(3)}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func dayXYs(values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	return xys
}
