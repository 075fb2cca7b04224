package analysis

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// SummaryRow holds the descriptive statistics of one numeric column.
// Undefined statistics are NaN.
type SummaryRow struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// SummaryHeader lists the statistic names in display order.
var SummaryHeader = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in SummaryHeader order.
func (s SummaryRow) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// MarshalJSON encodes NaN statistics as null.
func (s SummaryRow) MarshalJSON() ([]byte, error) {
	out := map[string]any{"column": s.Column}
	for i, v := range s.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[SummaryHeader[i]] = nil
			continue
		}
		out[SummaryHeader[i]] = v
	}
	out["count"] = s.Count
	return json.Marshal(out)
}

// Describe computes per-numeric-column statistics over the non-missing values.
func Describe(t *table.Table) []SummaryRow {
	cols := t.NumericColumns()
	out := make([]SummaryRow, 0, len(cols))
	for _, c := range cols {
		out = append(out, describeColumn(c.Name, c.Valid()))
	}
	return out
}

func describeColumn(name string, vals []float64) SummaryRow {
	nan := math.NaN()
	row := SummaryRow{Column: name, Count: len(vals), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(vals) == 0 {
		return row
	}
	sorted := sortedCopy(vals)
	row.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		row.Std = stat.StdDev(vals, nil)
	}
	row.Min = floats.Min(sorted)
	row.Max = floats.Max(sorted)
	row.Q25 = quantile(sorted, 0.25)
	row.Q50 = quantile(sorted, 0.5)
	row.Q75 = quantile(sorted, 0.75)
	return row
}
