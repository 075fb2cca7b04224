package plotpage

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

const (
	missingColor = "#e07b39"
	outlierColor = "#4682b4"
	// DefaultPreviewRows is the number of cleaned rows shown on the dashboard.
	DefaultPreviewRows = 20
)

// Dashboard builds the results page for an uploaded table and its cleaning
// run. Statistics and charts describe the uploaded data; the preview shows
// the cleaned rows.
func Dashboard(original *table.Table, res *clean.Result, previewRows int) *Page {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	style := DefaultStyle()
	rep := analysis.Analyze(original)

	page := NewPage("Data Preprocessing Dashboard", original.Name)
	page.Add(overviewSection(rep, res))
	page.Add(Section{
		Title:    "Summary Statistics",
		Subtitle: "Descriptive statistics of the numeric columns",
		Chart:    summaryTable(rep.Summary),
	})
	page.Add(missingSection(style, rep.Missing))
	if len(rep.Outliers.Order) > 0 {
		page.Add(outlierSection(style, original, rep.Outliers))
	}
	if res != nil {
		page.Add(previewSection(res.Table, previewRows))
	}
	return page
}

// SummaryPage builds a page holding only the statistics table of t.
func SummaryPage(t *table.Table) *Page {
	page := NewPage("Summary Statistics", t.Name)
	page.Add(Section{
		Title:    "Summary Statistics",
		Subtitle: "Descriptive statistics of the numeric columns",
		Chart:    summaryTable(analysis.Describe(t)),
	})
	return page
}

// UploadPage builds the dashboard landing page.
func UploadPage(form *UploadForm) *Page {
	page := NewPage("Data Preprocessing Dashboard", "Upload a CSV, XLSX or XLS file to clean and analyze it")
	page.Add(Section{Title: "Upload a dataset", Chart: form})
	return page
}

func overviewSection(rep *analysis.Report, res *clean.Result) Section {
	numeric, categorical := 0, 0
	for _, c := range rep.Cols {
		if c.Kind == table.KindNumeric.String() {
			numeric++
		} else {
			categorical++
		}
	}
	rows := [][]string{
		{"Rows", strconv.Itoa(rep.Rows)},
		{"Columns", strconv.Itoa(len(rep.Cols))},
		{"Numeric columns", strconv.Itoa(numeric)},
		{"Categorical columns", strconv.Itoa(categorical)},
		{"Missing cells", strconv.Itoa(rep.Missing.TotalMissing())},
		{"Rows with missing values", strconv.Itoa(len(rep.Missing.RowsWithMissing))},
		{"Outliers detected", strconv.Itoa(rep.Outliers.Total())},
	}
	var hint Hint
	if res != nil {
		filled := 0
		for _, n := range res.Imputed {
			filled += n
		}
		rows = append(rows,
			[]string{"Cells imputed", strconv.Itoa(filled)},
			[]string{"Outliers replaced", strconv.Itoa(res.ReplacedTotal())},
		)
		if len(res.Warnings) > 0 {
			hint = Hint{Title: "Warnings", Items: res.Warnings}
		}
	}
	return Section{
		Title: "Overview",
		Chart: &Table{Header: []string{"Metric", "Value"}, Rows: rows},
		Hint:  hint,
	}
}

func summaryTable(summary []analysis.SummaryRow) Renderable {
	if len(summary) == 0 {
		return Message("No numeric columns to summarize.")
	}
	header := append([]string{"Metric"}, analysis.SummaryHeader...)
	rows := make([][]string, len(summary))
	for i, s := range summary {
		row := []string{s.Column}
		for j, v := range s.Values() {
			if j == 0 {
				row = append(row, strconv.Itoa(s.Count))
				continue
			}
			row = append(row, analysis.FormatStat(v))
		}
		rows[i] = row
	}
	return &Table{Header: header, Rows: rows}
}

func missingSection(style Style, rep analysis.MissingReport) Section {
	names, counts := rep.Affected()
	if len(names) == 0 {
		return Section{Title: "Missing Values", Chart: Message(report.NoMissingText)}
	}
	chart := NewBarChart(style).
		XAxis("Columns", names, 45).
		YAxis("Count of Missing Values").
		Series("Missing", counts, missingColor).
		Build()
	return Section{
		Title:    "Missing Values",
		Subtitle: "Count of Missing Values by Column",
		Chart:    chart,
	}
}

func outlierSection(style Style, t *table.Table, rep analysis.OutlierReport) Section {
	counts := make([]int, len(rep.Order))
	var boxes []BoxStats
	var hints []string
	for i, name := range rep.Order {
		counts[i] = rep.Counts[name]
		f, ok := rep.Fences[name]
		if !ok {
			continue
		}
		c, _ := t.Column(name)
		vals := c.Valid()
		boxes = append(boxes, BoxStats{
			Name:   name,
			Min:    analysis.Quantile(vals, 0),
			Q1:     f.Q1,
			Median: analysis.Quantile(vals, 0.5),
			Q3:     f.Q3,
			Max:    analysis.Quantile(vals, 1),
		})
		if counts[i] > 0 {
			hints = append(hints, fmt.Sprintf("%s: %d values outside [%s, %s]",
				name, counts[i], analysis.FormatStat(f.Lower), analysis.FormatStat(f.Upper)))
		}
	}
	bars := NewBarChart(style).
		XAxis("Features", rep.Order, 45).
		YAxis("Count of Outliers").
		Series("Outliers", counts, outlierColor).
		Build()
	charts := Group{bars}
	if len(boxes) > 0 {
		charts = append(charts, NewBoxPlot(style, "Values", boxes))
	}
	return Section{
		Title:    "Outlier Analysis",
		Subtitle: "Count of Outliers by Feature and Box Plot of Numeric Features",
		Chart:    charts,
		Hint:     Hint{Title: "IQR fences (1.5 x IQR)", Items: hints},
	}
}

func previewSection(t *table.Table, limit int) Section {
	n := min(limit, t.Rows())
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Record(i)
	}
	return Section{
		Title:    "Cleaned Data",
		Subtitle: "Imputed, outlier-corrected and standardized values",
		Chart: &Table{
			Header: t.Header(),
			Rows:   rows,
			Footer: fmt.Sprintf("Showing %d of %d rows", n, t.Rows()),
		},
	}
}
