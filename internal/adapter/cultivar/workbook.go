package cultivar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agroclim/maize-stress/internal/domain"
)

// Workbook holds observed crop-model timing read from a Mean.xlsx-style
// workbook: one sheet per region, a header row, and one row per cultivar ×
// scenario with the scenario in its parenthesized label form. It implements
// pipeline.TimingProvider.
//
// Expected columns (header names case-insensitive): Cultivar, Scenario,
// FloweringDAS, MaturityDAS, and optionally FloweringSD.
type Workbook struct {
	timings map[timingKey]domain.ObservedTiming
}

type timingKey struct {
	region   string
	cultivar string
	scenario string
}

// OpenWorkbook reads the whole workbook eagerly and closes the file. Rows
// whose scenario label does not match the given period are ignored.
func OpenWorkbook(path, period string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{timings: make(map[timingKey]domain.ObservedTiming)}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := wb.readSheet(sheet, period, rows); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return wb, nil
}

func (wb *Workbook) readSheet(region, period string, rows [][]string) error {
	if len(rows) < 2 {
		return nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"cultivar", "scenario", "floweringdas", "maturitydas"} {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}

	for i, row := range rows[1:] {
		cultivarName := cell(row, cols["cultivar"])
		label := cell(row, cols["scenario"])
		if cultivarName == "" || label == "" {
			continue
		}
		scenario, ok := parseScenarioLabel(period, label)
		if !ok {
			continue
		}

		flowering, err := strconv.ParseFloat(cell(row, cols["floweringdas"]), 64)
		if err != nil {
			return fmt.Errorf("row %d: bad FloweringDAS: %w", i+2, err)
		}
		maturity, err := strconv.ParseFloat(cell(row, cols["maturitydas"]), 64)
		if err != nil {
			return fmt.Errorf("row %d: bad MaturityDAS: %w", i+2, err)
		}

		obs := domain.ObservedTiming{FloweringDAS: flowering, MaturityDAS: maturity}
		if sd, ok := cols["floweringsd"]; ok {
			if v := cell(row, sd); v != "" {
				obs.FloweringSD, err = strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("row %d: bad FloweringSD: %w", i+2, err)
				}
			}
		}

		wb.timings[timingKey{region: region, cultivar: cultivarName, scenario: scenario}] = obs
	}
	return nil
}

// ObservedTiming looks up the timing row for one region × cultivar ×
// scenario. ok is false when the workbook has no such row.
func (wb *Workbook) ObservedTiming(region, cultivar, scenario string) (domain.ObservedTiming, bool, error) {
	obs, ok := wb.timings[timingKey{region: region, cultivar: cultivar, scenario: scenario}]
	return obs, ok, nil
}

// Len returns the number of timing rows loaded.
func (wb *Workbook) Len() int { return len(wb.timings) }

// parseScenarioLabel extracts the scenario id from a parenthesized label,
// e.g. "(2071-2090)(ssp245)" with period "2071-2090" → "ssp245".
func parseScenarioLabel(period, label string) (string, bool) {
	label = strings.TrimSpace(label)
	prefix := "(" + period + ")("
	if !strings.HasPrefix(label, prefix) || !strings.HasSuffix(label, ")") {
		return "", false
	}
	id := label[len(prefix) : len(label)-1]
	return id, id != ""
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
