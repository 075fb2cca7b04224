// Package clean implements the data-quality stages applied to a table:
// numeric imputation, IQR outlier replacement, z-score standardization and
// categorical mode fill. Every stage mutates the table it is given.
package clean

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Weighting selects how KNN donors contribute to an estimate.
type Weighting string

const (
	WeightUniform  Weighting = "uniform"
	WeightDistance Weighting = "distance"
)

// ParseWeighting validates a weighting name.
func ParseWeighting(s string) (Weighting, error) {
	switch w := Weighting(strings.ToLower(strings.TrimSpace(s))); w {
	case WeightUniform, WeightDistance:
		return w, nil
	case "":
		return WeightDistance, nil
	default:
		return "", fmt.Errorf("unknown knn weighting %q (use uniform or distance)", s)
	}
}

// ImputeMean replaces each missing numeric cell with the mean of the
// non-missing values of its column. It returns the fill count per column.
func ImputeMean(t *table.Table) (map[string]int, error) {
	filled := map[string]int{}
	cols := t.NumericColumns()
	means := make([]float64, len(cols))
	for j, c := range cols {
		m, err := columnMean(c, "mean imputation")
		if err != nil {
			return nil, err
		}
		means[j] = m
	}
	for j, c := range cols {
		for i := range c.Null {
			if c.Null[i] {
				c.Num[i] = means[j]
				c.Null[i] = false
				filled[c.Name]++
			}
		}
	}
	return filled, nil
}

// ImputeKNN fills missing numeric cells from the k nearest rows. Distances are
// Euclidean over a mean-substituted copy of the numeric columns, leaving out
// the column being filled. Donors are rows where that column has a value;
// ties in distance go to the earlier row. Estimates only read original values
// so the fill order does not matter.
func ImputeKNN(t *table.Table, k int, w Weighting) (map[string]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("knn imputation: k must be positive, got %d", k)
	}
	if w == "" {
		w = WeightDistance
	}
	cols := t.NumericColumns()
	rows := t.Rows()
	matrix := make([][]float64, len(cols))
	for j, c := range cols {
		m, err := columnMean(c, "knn imputation")
		if err != nil {
			return nil, err
		}
		matrix[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			if c.Null[i] {
				matrix[j][i] = m
			} else {
				matrix[j][i] = c.Num[i]
			}
		}
	}

	// With no other numeric column there is nothing to measure distance on,
	// so the column mean stands in for every neighbour average.
	if len(cols) == 1 {
		return ImputeMean(t)
	}

	type fill struct {
		col, row int
		v        float64
	}
	var fills []fill
	rowA := make([]float64, 0, len(cols))
	rowB := make([]float64, 0, len(cols))
	for j, c := range cols {
		for r := 0; r < rows; r++ {
			if !c.Null[r] {
				continue
			}
			var cands []neighbor
			for d := 0; d < rows; d++ {
				if d == r || c.Null[d] {
					continue
				}
				rowA, rowB = rowA[:0], rowB[:0]
				for o := range cols {
					if o == j {
						continue
					}
					rowA = append(rowA, matrix[o][r])
					rowB = append(rowB, matrix[o][d])
				}
				dist := 0.0
				if len(rowA) > 0 {
					dist = floats.Distance(rowA, rowB, 2)
				}
				cands = append(cands, neighbor{row: d, dist: dist})
			}
			fills = append(fills, fill{col: j, row: r, v: estimate(cands, c.Num, k, w)})
		}
	}

	filled := map[string]int{}
	for _, f := range fills {
		c := cols[f.col]
		c.Num[f.row] = f.v
		c.Null[f.row] = false
		filled[c.Name]++
	}
	return filled, nil
}

type neighbor struct {
	row  int
	dist float64
}

// estimate averages the values of the k nearest candidates. Candidates arrive
// in row order, which the stable sort keeps for equal distances.
func estimate(cands []neighbor, vals []float64, k int, w Weighting) float64 {
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	if len(cands) > k {
		cands = cands[:k]
	}
	x := make([]float64, len(cands))
	weights := make([]float64, len(cands))
	zero := false
	for i, n := range cands {
		x[i] = vals[n.row]
		if n.dist == 0 {
			zero = true
		}
	}
	for i, n := range cands {
		switch {
		case w == WeightUniform:
			weights[i] = 1
		case zero:
			if n.dist == 0 {
				weights[i] = 1
			}
		default:
			weights[i] = 1 / n.dist
		}
	}
	return stat.Mean(x, weights)
}

// FillMode replaces missing categorical cells with the most frequent value of
// their column. Columns without any value are left as they are and reported
// in the returned warnings.
func FillMode(t *table.Table) (filled map[string]int, warnings []string) {
	filled = map[string]int{}
	for _, c := range t.CategoricalColumns() {
		if c.MissingCount() == 0 {
			continue
		}
		mode, ok := analysis.Mode(c)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("column %q has no values; left missing", c.Name))
			continue
		}
		for i := range c.Null {
			if c.Null[i] {
				c.Str[i] = mode
				c.Null[i] = false
				filled[c.Name]++
			}
		}
	}
	return filled, warnings
}

func columnMean(c *table.Column, op string) (float64, error) {
	vals := c.Valid()
	if len(vals) == 0 {
		if c.Len() == 0 {
			return math.NaN(), nil
		}
		return 0, table.NewAllMissing(c.Name, op)
	}
	return stat.Mean(vals, nil), nil
}
