package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.StageEvaluations.Add(40)
	m.ThresholdExceeded.Add(3)
	m.RunDuration.Set(1.5)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteTextfile(path, m.Registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "maize_stress_stage_evaluations_total 40")
	assert.Contains(t, out, "maize_stress_threshold_exceedances_total 3")
	assert.Contains(t, out, "maize_stress_run_duration_seconds 1.5")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := NewMetrics()
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"), m.Registry)
	require.Error(t, err)
}
