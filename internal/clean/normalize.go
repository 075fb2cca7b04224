package clean

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Standardize rescales every numeric column to zero mean and unit standard
// deviation. ddof is the delta degrees of freedom of the deviation: 0 for the
// population form, 1 for the sample form. Columns without spread map to 0.
func Standardize(t *table.Table, ddof int) error {
	if ddof != 0 && ddof != 1 {
		return fmt.Errorf("standardize: ddof must be 0 or 1, got %d", ddof)
	}
	for _, c := range t.NumericColumns() {
		vals := c.Valid()
		if len(vals) == 0 {
			continue
		}
		mean, std := meanStd(vals, ddof)
		if floats.Min(vals) == floats.Max(vals) {
			std = 0
		}
		for i := range c.Num {
			if c.Null[i] {
				continue
			}
			if std == 0 || math.IsNaN(std) {
				c.Num[i] = 0
				continue
			}
			c.Num[i] = (c.Num[i] - mean) / std
		}
	}
	return nil
}

func meanStd(vals []float64, ddof int) (mean, std float64) {
	if ddof == 1 {
		if len(vals) < 2 {
			return stat.Mean(vals, nil), 0
		}
		m, v := stat.MeanVariance(vals, nil)
		return m, math.Sqrt(v)
	}
	m, v := stat.PopMeanVariance(vals, nil)
	return m, math.Sqrt(v)
}
