package cultivar

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const workbookPeriod = "2071-2090"

// writeWorkbook builds a two-sheet observed-timing workbook on disk.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	header := []interface{}{"Cultivar", "Scenario", "FloweringDAS", "MaturityDAS", "FloweringSD"}

	sheets := map[string][][]interface{}{
		"Dezful": {
			{"KSC260", "(2071-2090)(ssp245)", 61.4, 118.2, 1.8},
			{"KSC260", "(2071-2090)(ssp585)", 58.9, 112.5, 2.3},
			{"KSC704", "(2071-2090)(ssp245)", 67.0, 131.6, 1.2},
		},
		"Ilam": {
			{"KSC260", "(2071-2090)(ssp245)", 70.1, 135.0, ""},
			// Row from another period must be ignored.
			{"KSC260", "(2041-2060)(ssp245)", 64.0, 120.0, 1.0},
		},
	}

	first := true
	for sheet, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
			first = false
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
		}
	}

	path := filepath.Join(t.TempDir(), "Mean.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpenWorkbook(t *testing.T) {
	wb, err := OpenWorkbook(writeWorkbook(t), workbookPeriod)
	require.NoError(t, err)
	assert.Equal(t, 4, wb.Len(), "other-period rows are skipped")

	t.Run("lookup hit", func(t *testing.T) {
		obs, ok, err := wb.ObservedTiming("Dezful", "KSC260", "ssp585")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 58.9, obs.FloweringDAS)
		assert.Equal(t, 112.5, obs.MaturityDAS)
		assert.Equal(t, 2.3, obs.FloweringSD)
	})

	t.Run("empty SD cell defaults to zero", func(t *testing.T) {
		obs, ok, err := wb.ObservedTiming("Ilam", "KSC260", "ssp245")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Zero(t, obs.FloweringSD)
	})

	t.Run("lookup miss", func(t *testing.T) {
		_, ok, err := wb.ObservedTiming("Ilam", "KSC704", "ssp585")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOpenWorkbook_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"), workbookPeriod)
		require.Error(t, err)
	})

	t.Run("missing column", func(t *testing.T) {
		f := excelize.NewFile()
		header := []interface{}{"Cultivar", "Scenario", "FloweringDAS"}
		require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &header))
		row := []interface{}{"KSC260", "(2071-2090)(ssp245)", 61.0}
		require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A2", &row))
		path := filepath.Join(t.TempDir(), "bad.xlsx")
		require.NoError(t, f.SaveAs(path))

		_, err := OpenWorkbook(path, workbookPeriod)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maturitydas")
	})
}

func TestParseScenarioLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"(2071-2090)(ssp245)", "ssp245", true},
		{" (2071-2090)(ssp585) ", "ssp585", true},
		{"(2041-2060)(ssp245)", "", false},
		{"(2071-2090)()", "", false},
		{"ssp245", "", false},
	}
	for _, tt := range tests {
		got, ok := parseScenarioLabel(workbookPeriod, tt.label)
		assert.Equal(t, tt.ok, ok, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}
}
