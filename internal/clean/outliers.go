package clean

import (
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// OutlierStat records what ReplaceOutliers did to one column.
type OutlierStat struct {
	Replaced int            `json:"replaced"`
	Mean     float64        `json:"mean"`
	Fence    analysis.Fence `json:"bounds"`
}

// ReplaceOutliers replaces values strictly outside each numeric column's IQR
// fence with the column mean. Fence and mean are computed once from the
// values present when the stage starts; missing cells are skipped.
func ReplaceOutliers(t *table.Table) map[string]OutlierStat {
	out := map[string]OutlierStat{}
	for _, c := range t.NumericColumns() {
		vals := c.Valid()
		f, ok := analysis.Bounds(vals)
		if !ok {
			continue
		}
		st := OutlierStat{Mean: stat.Mean(vals, nil), Fence: f}
		for i, v := range c.Num {
			if c.Null[i] || !f.Outside(v) {
				continue
			}
			c.Num[i] = st.Mean
			st.Replaced++
		}
		out[c.Name] = st
	}
	return out
}
