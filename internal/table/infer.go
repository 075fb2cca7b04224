package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMissingMarkers are the cell texts read as missing in addition to
// blank cells.
var DefaultMissingMarkers = []string{
	"NA", "N/A", "n/a", "NaN", "nan", "-nan", "-NaN", "null", "NULL", "None", "#N/A", "<NA>",
}

// InferOptions controls how raw text cells become typed columns.
type InferOptions struct {
	// MissingMarkers are compared after trimming; nil means DefaultMissingMarkers.
	MissingMarkers []string
	// DecimalSeparator for numbers; 0 means '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing; 0 means none.
	ThousandsSeparator rune
}

// DefaultInferOptions returns the options used when none are configured.
func DefaultInferOptions() InferOptions {
	return InferOptions{MissingMarkers: DefaultMissingMarkers}
}

// FromRecords builds a typed table from a header and raw rows. Every row must
// have exactly as many fields as the header.
func FromRecords(name string, header []string, rows [][]string, opt InferOptions) (*Table, error) {
	if len(header) == 0 {
		return nil, &EmptyInputError{Filename: name, Reason: "no columns"}
	}
	if len(rows) == 0 {
		return nil, &EmptyInputError{Filename: name, Reason: "no data rows"}
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, &ParseError{
				Filename: name,
				Row:      i + 1,
				Err:      fmt.Errorf("expected %d fields, got %d", len(header), len(r)),
			}
		}
	}
	markers := opt.MissingMarkers
	if markers == nil {
		markers = DefaultMissingMarkers
	}
	missing := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		missing[strings.TrimSpace(m)] = struct{}{}
	}

	names := normalizeHeader(header)
	t := New(name)
	for j, colName := range names {
		null := make([]bool, len(rows))
		raw := make([]string, len(rows))
		nums := make([]float64, len(rows))
		numeric := true
		for i, r := range rows {
			v := strings.TrimSpace(r[j])
			if _, ok := missing[v]; ok || v == "" {
				null[i] = true
				continue
			}
			raw[i] = v
			if !numeric {
				continue
			}
			x, ok := parseNumeric(v, opt)
			if !ok {
				numeric = false
				continue
			}
			if math.IsNaN(x) || math.IsInf(x, 0) {
				null[i] = true
				continue
			}
			nums[i] = x
		}
		var err error
		if numeric {
			err = t.AddNumeric(colName, nums, null)
		} else {
			err = t.AddCategorical(colName, raw, null)
		}
		if err != nil {
			return nil, &ParseError{Filename: name, Err: err}
		}
	}
	return t, nil
}

// normalizeHeader names blank headers "Unnamed: <i>" and suffixes duplicates
// with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		base := n
		for {
			if _, dup := seen[n]; !dup {
				break
			}
			seen[base]++
			n = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}

func parseNumeric(s string, opt InferOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, " ", "")
	if opt.ThousandsSeparator != 0 && opt.ThousandsSeparator != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(opt.DecimalSeparator), ".")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
