package analysis

import (
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// ColumnMissing is the missing-value count of one column.
type ColumnMissing struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MissingReport describes where a table has missing cells.
type MissingReport struct {
	Columns         map[string]ColumnMissing `json:"columns"`
	RowsWithMissing []int                    `json:"rows_with_missing"`
	TotalRows       int                      `json:"total_rows"`
	TotalColumns    int                      `json:"total_columns"`
	// Order keeps the table's column order for rendering.
	Order []string `json:"-"`
}

// TotalMissing returns the number of missing cells in the table.
func (r MissingReport) TotalMissing() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Count
	}
	return n
}

// Affected returns the names of columns with at least one missing cell, in
// table order, together with their counts.
func (r MissingReport) Affected() (names []string, counts []int) {
	for _, name := range r.Order {
		if c := r.Columns[name].Count; c > 0 {
			names = append(names, name)
			counts = append(counts, c)
		}
	}
	return names, counts
}

// Missing counts missing cells per column and lists the affected rows.
func Missing(t *table.Table) MissingReport {
	rows := t.Rows()
	rep := MissingReport{
		Columns:         make(map[string]ColumnMissing, t.Width()),
		RowsWithMissing: []int{},
		TotalRows:       rows,
		TotalColumns:    t.Width(),
		Order:           t.Header(),
	}
	rowHit := make([]bool, rows)
	for _, c := range t.Columns {
		cnt := 0
		for i := 0; i < rows; i++ {
			if c.IsMissing(i) {
				cnt++
				rowHit[i] = true
			}
		}
		pct := 0.0
		if rows > 0 {
			pct = float64(cnt) * 100.0 / float64(rows)
		}
		rep.Columns[c.Name] = ColumnMissing{Count: cnt, Percentage: pct}
	}
	for i, hit := range rowHit {
		if hit {
			rep.RowsWithMissing = append(rep.RowsWithMissing, i)
		}
	}
	return rep
}
