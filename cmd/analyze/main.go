// Command analyze runs the maize heat-stress analysis: it loads projected
// daily temperature series for every region × scenario, derives growth-stage
// windows per cultivar, evaluates heat stress per stage, and writes the flat
// result table, comparison-grid plots, and a metrics snapshot to the output
// directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agroclim/maize-stress/internal/adapter/csvdata"
	"github.com/agroclim/maize-stress/internal/adapter/cultivar"
	"github.com/agroclim/maize-stress/internal/adapter/plotgrid"
	"github.com/agroclim/maize-stress/internal/config"
	"github.com/agroclim/maize-stress/internal/domain"
	"github.com/agroclim/maize-stress/internal/observability"
	"github.com/agroclim/maize-stress/internal/pipeline"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	cultivars, err := cultivar.LoadFile(cfg.CultivarFile)
	if err != nil {
		return fmt.Errorf("load cultivar table: %w", err)
	}
	logger.Info("cultivar table loaded", "path", cfg.CultivarFile, "cultivars", len(cultivars))

	var timing pipeline.TimingProvider
	if cfg.WorkbookPath != "" {
		wb, err := cultivar.OpenWorkbook(cfg.WorkbookPath, cfg.Period)
		if err != nil {
			return fmt.Errorf("load observed-timing workbook: %w", err)
		}
		logger.Info("observed-timing workbook loaded", "path", cfg.WorkbookPath, "rows", wb.Len())
		timing = wb
	} else {
		logger.Info("no workbook configured, stage windows run uncalibrated")
	}

	p := pipeline.New(
		csvdata.NewLoader(cfg.DataDir, cfg.Period),
		timing,
		logger,
		metrics,
		pipeline.Options{
			Planting:  cfg.PlantingDate,
			Threshold: cfg.Threshold,
			Scenarios: cfg.Scenarios,
			Regions:   cfg.Regions,
			Cultivars: cultivars,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	resultsPath := filepath.Join(cfg.OutputDir, "results.csv")
	if err := csvdata.WriteResults(resultsPath, out.Results.Rows); err != nil {
		return err
	}
	logger.Info("result table written", "path", resultsPath, "rows", len(out.Results.Rows))

	if err := renderFigures(cfg, cultivarNames(cultivars), out.Profiles, logger); err != nil {
		return err
	}

	metricsPath := filepath.Join(cfg.OutputDir, "metrics.prom")
	if err := observability.WriteTextfile(metricsPath, metrics.Registry); err != nil {
		logger.Warn("metrics snapshot failed", "error", err)
	}

	return nil
}

// renderFigures draws one comparison grid per pair of regions (config
// order), regions as rows and cultivars as columns, every scenario overlaid
// in each subplot. All figures share one y-range.
func renderFigures(cfg *config.Config, names []string, profiles []pipeline.Profile, logger *slog.Logger) error {
	type key struct{ region, cultivar, scenario string }
	byKey := make(map[key]pipeline.Profile, len(profiles))
	for _, pr := range profiles {
		byKey[key{pr.Region, pr.Cultivar, pr.Scenario}] = pr
	}

	var figures []plotgrid.Figure
	var all []plotgrid.Cell
	for g := 0; g < len(cfg.Regions); g += 2 {
		regions := cfg.Regions[g:min(g+2, len(cfg.Regions))]
		cells := make([][]plotgrid.Cell, 0, len(regions))
		for _, region := range regions {
			row := make([]plotgrid.Cell, 0, len(names))
			for _, name := range names {
				cell := plotgrid.Cell{Region: region, Cultivar: name}
				for _, scenario := range cfg.Scenarios {
					if pr, ok := byKey[key{region, name, scenario}]; ok {
						cell.Curves = append(cell.Curves, curveFromProfile(pr, cfg.PlantingDate))
					}
				}
				row = append(row, cell)
				all = append(all, cell)
			}
			cells = append(cells, row)
		}
		figures = append(figures, plotgrid.Figure{Cells: cells})
	}

	yMin, yMax := plotgrid.TemperatureRange(all...)
	for i, fig := range figures {
		fig.YMin, fig.YMax = yMin, yMax
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("plot_grid_%d.png", i+1))
		if err := plotgrid.Render(path, fig); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		logger.Info("comparison grid written", "path", path)
	}
	return nil
}

func curveFromProfile(pr pipeline.Profile, planting time.Time) plotgrid.Curve {
	curve := plotgrid.Curve{Scenario: pr.Scenario, MinT: pr.MinT, MaxT: pr.MaxT}
	for _, w := range pr.Windows {
		switch w.Stage {
		case domain.StageFlowering:
			curve.FloweringDAS = daysAfterSowing(planting, w.Start)
		case domain.StageMaturity:
			curve.MaturityDAS = daysAfterSowing(planting, w.End)
		}
	}
	if pr.Observed != nil {
		curve.FloweringSD = pr.Observed.FloweringSD
	}
	return curve
}

func daysAfterSowing(planting, t time.Time) int {
	return int(t.Sub(planting) / (24 * time.Hour))
}

func cultivarNames(cultivars []domain.Cultivar) []string {
	names := make([]string, len(cultivars))
	for i, c := range cultivars {
		names[i] = c.Name
	}
	return names
}
