package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/agroclim/maize-stress/internal/pipeline"
)

var resultHeader = []string{
	"scenario", "region", "cultivar", "stage",
	"mean_max_temp", "peak_max_temp", "days", "exceeds_threshold",
	"status", "note",
}

// WriteResults writes the flat result table as CSV. Rows without a numeric
// summary (insufficient data, failures) get empty numeric cells rather than
// zeros.
func WriteResults(path string, rows []pipeline.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write(resultRecord(row)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func resultRecord(r pipeline.Row) []string {
	rec := []string{r.Scenario, r.Region, r.Cultivar, r.Stage, "", "", "", "", string(r.Status), r.Note}
	if r.Status == pipeline.StatusOK {
		rec[4] = strconv.FormatFloat(r.MeanMax, 'f', 2, 64)
		rec[5] = strconv.FormatFloat(r.PeakMax, 'f', 2, 64)
		rec[6] = strconv.Itoa(r.Days)
		rec[7] = strconv.FormatBool(r.Exceeds)
	}
	return rec
}
