package compare

import (
	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"gonum.org/v1/gonum/stat"
)

// SummaryColumns are the ratio columns aggregated after a run.
var SummaryColumns = []string{
	HeaderTargetSpeedup,
	HeaderEagerRatio,
	HeaderInductorRatio,
}

// Summary is the clamped geometric mean of one ratio column.
type Summary struct {
	Column  string  `json:"column"`
	GeoMean float64 `json:"geomean"`
	Count   int     `json:"count"`
	// Available is false when no row had a positive value for the column.
	Available bool `json:"available"`
}

// Display renders the mean, or "n/a" when there was nothing to average.
func (s Summary) Display() string {
	if !s.Available {
		return "n/a"
	}
	return FormatFloat(s.GeoMean)
}

// Summarize computes a Summary for each of SummaryColumns.
func Summarize(rows []ComparisonRow) []Summary {
	out := make([]Summary, 0, len(SummaryColumns))
	for _, column := range SummaryColumns {
		var values []float64
		for _, row := range rows {
			if c, ok := row.Column(column); ok && c.Valid {
				values = append(values, c.Value)
			}
		}
		s := Summary{Column: column}
		s.GeoMean, s.Count, s.Available = ClampedGeoMean(values)
		if !s.Available {
			logging.LogEvent("[SUMMARY] %s: no positive values, reporting n/a", column)
		}
		out = append(out, s)
	}
	return out
}

// ClampedGeoMean drops values that are not strictly positive (the absent and
// not-computable markers, NaN included), raises the rest to at least 1 and
// returns their geometric mean. ok is false when nothing is left.
func ClampedGeoMean(values []float64) (mean float64, count int, ok bool) {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !(v > 0) {
			continue
		}
		if v < 1 {
			v = 1
		}
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return 0, 0, false
	}
	return stat.GeometricMean(kept, nil), len(kept), true
}
