package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/daily_averages", cfg.DataDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "data/cultivars.yaml", cfg.CultivarFile)
	assert.Empty(t, cfg.WorkbookPath)
	assert.Equal(t, "2071-2090", cfg.Period)
	assert.Equal(t, []string{"ssp245", "ssp585"}, cfg.Scenarios)
	assert.Len(t, cfg.Regions, 8)
	assert.Equal(t, time.Date(2071, 5, 22, 0, 0, 0, 0, time.UTC), cfg.PlantingDate)
	assert.Equal(t, 35.0, cfg.Threshold)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/climate")
	t.Setenv("OUTPUT_DIR", "/srv/results")
	t.Setenv("CULTIVAR_FILE", "/srv/cultivars.yaml")
	t.Setenv("WORKBOOK_PATH", "/srv/Mean.xlsx")
	t.Setenv("PERIOD", "2041-2060")
	t.Setenv("SCENARIOS", "ssp126, ssp585")
	t.Setenv("REGIONS", "Dezful,Ilam")
	t.Setenv("PLANTING_DATE", "2041-04-15")
	t.Setenv("THRESHOLD", "37.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/climate", cfg.DataDir)
	assert.Equal(t, "/srv/Mean.xlsx", cfg.WorkbookPath)
	assert.Equal(t, "2041-2060", cfg.Period)
	assert.Equal(t, []string{"ssp126", "ssp585"}, cfg.Scenarios)
	assert.Equal(t, []string{"Dezful", "Ilam"}, cfg.Regions)
	assert.Equal(t, time.Date(2041, 4, 15, 0, 0, 0, 0, time.UTC), cfg.PlantingDate)
	assert.Equal(t, 37.5, cfg.Threshold)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad planting date", "PLANTING_DATE", "May 22"},
		{"non-numeric threshold", "THRESHOLD", "hot"},
		{"negative threshold", "THRESHOLD", "-5"},
		{"empty regions", "REGIONS", " , ,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
