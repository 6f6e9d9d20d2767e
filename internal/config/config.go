package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all analysis settings, populated from environment variables.
type Config struct {
	DataDir      string // root of <region>/<scenario label>/daily_averages.csv
	OutputDir    string
	CultivarFile string
	WorkbookPath string // observed-timing workbook; empty disables calibration

	Period    string // projection period, e.g. "2071-2090"
	Scenarios []string
	Regions   []string

	PlantingDate time.Time
	Threshold    float64 // physiological threshold, °C

	LogLevel  string
	LogFormat string
}

// Defaults mirror the upstream study: 8 Iranian sites, SSP2-4.5 and
// SSP5-8.5, sowing on May 22, 35 °C threshold.
const (
	defaultScenarios = "ssp245,ssp585"
	defaultRegions   = "Dezful,Shushtar,Lamerd,Kermanshah,Zarqan,Ravansar,Parsabad,Ilam"
	defaultPlanting  = "2071-05-22"
)

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	planting, err := time.Parse("2006-01-02", envOrDefault("PLANTING_DATE", defaultPlanting))
	if err != nil {
		return nil, fmt.Errorf("invalid PLANTING_DATE: %w", err)
	}

	threshold, err := parseThreshold()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:      envOrDefault("DATA_DIR", "data/daily_averages"),
		OutputDir:    envOrDefault("OUTPUT_DIR", "out"),
		CultivarFile: envOrDefault("CULTIVAR_FILE", "data/cultivars.yaml"),
		WorkbookPath: os.Getenv("WORKBOOK_PATH"),
		Period:       envOrDefault("PERIOD", "2071-2090"),
		Scenarios:    parseList(envOrDefault("SCENARIOS", defaultScenarios)),
		Regions:      parseList(envOrDefault("REGIONS", defaultRegions)),
		PlantingDate: planting,
		Threshold:    threshold,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if len(cfg.Scenarios) == 0 {
		return nil, errors.New("SCENARIOS is required")
	}
	if len(cfg.Regions) == 0 {
		return nil, errors.New("REGIONS is required")
	}
	if cfg.Period == "" {
		return nil, errors.New("PERIOD is required")
	}

	return cfg, nil
}

func parseThreshold() (float64, error) {
	s := envOrDefault("THRESHOLD", "35")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid THRESHOLD %q", s)
	}
	return v, nil
}

// envOrDefault returns the environment value for key, or fallback when the
// variable is unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
