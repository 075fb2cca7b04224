package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Report bundles the read-only analyses of a table.
type Report struct {
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Cols     []ColumnInfo  `json:"columns"`
	Summary  []SummaryRow  `json:"summary"`
	Missing  MissingReport `json:"missing"`
	Outliers OutlierReport `json:"outliers"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ColumnInfo captures the kind and a few headline figures per column.
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	NonNull int    `json:"non_null"`
	Unique  int    `json:"unique"`
	// Top holds the most frequent value of categorical columns.
	Top string `json:"top,omitempty"`
}

// Analyze runs every read-only analysis over t.
func Analyze(t *table.Table) *Report {
	rep := &Report{
		Name:     t.Name,
		Rows:     t.Rows(),
		Summary:  Describe(t),
		Missing:  Missing(t),
		Outliers: Outliers(t),
	}
	for _, c := range t.Columns {
		info := ColumnInfo{Name: c.Name, Kind: c.Kind.String(), NonNull: c.Len() - c.MissingCount()}
		seen := map[string]int{}
		for i := 0; i < c.Len(); i++ {
			if !c.IsMissing(i) {
				seen[c.Cell(i)]++
			}
		}
		info.Unique = len(seen)
		if c.Kind == table.KindCategorical {
			if top, ok := Mode(c); ok {
				info.Top = top
			}
		}
		if info.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q has no values", c.Name))
		}
		rep.Cols = append(rep.Cols, info)
	}
	return rep
}

// Mode returns the most frequent non-missing value of a categorical column.
// Ties go to the value encountered first. ok is false when every cell is missing.
func Mode(c *table.Column) (string, bool) {
	counts := map[string]int{}
	var order []string
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Cell(i)
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		miss := r.Missing.Columns[c.Name]
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, miss.Percentage))
		if c.Top != "" {
			b.WriteString(fmt.Sprintf(" top: %s; unique=%d", safeVal(c.Top), c.Unique))
		}
		b.WriteString("\n")
	}

	if len(r.Summary) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		b.WriteString("| column | " + strings.Join(SummaryHeader, " | ") + " |\n")
		b.WriteString("|---" + strings.Repeat("|---", len(SummaryHeader)) + "|\n")
		for _, s := range r.Summary {
			b.WriteString("| " + safeVal(s.Column))
			for i, v := range s.Values() {
				if i == 0 {
					b.WriteString(fmt.Sprintf(" | %d", s.Count))
					continue
				}
				b.WriteString(" | " + FormatStat(v))
			}
			b.WriteString(" |\n")
		}
	}

	b.WriteString("\n[MISSING VALUES]\n")
	names, counts := r.Missing.Affected()
	if len(names) == 0 {
		b.WriteString("No missing values found in the data.\n")
	} else {
		for i, n := range names {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeName(n), counts[i], r.Missing.Columns[n].Percentage))
		}
		b.WriteString(fmt.Sprintf("Rows with missing values: %d of %d\n", len(r.Missing.RowsWithMissing), r.Missing.TotalRows))
	}

	if len(r.Outliers.Order) > 0 {
		b.WriteString("\n[OUTLIERS]\n")
		for _, n := range r.Outliers.Order {
			line := fmt.Sprintf("- %s: %d", safeName(n), r.Outliers.Counts[n])
			if f, ok := r.Outliers.Fences[n]; ok {
				line += fmt.Sprintf(" outside [%.4g, %.4g]", f.Lower, f.Upper)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatStat renders a statistic with four significant digits, NaN as "NaN".
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
