package clean

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// Strategy selects the numeric imputation method.
type Strategy string

const (
	StrategyMean Strategy = "mean"
	StrategyKNN  Strategy = "knn"
)

// ParseStrategy validates a strategy name; "" selects the default.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyKNN:
		return st, nil
	case "":
		return StrategyKNN, nil
	default:
		return "", fmt.Errorf("unknown imputation strategy %q (use mean or knn)", s)
	}
}

// Options configure a pipeline run. Each run gets its own value.
type Options struct {
	Strategy  Strategy
	Neighbors int
	Weighting Weighting
	DDOF      int
}

// DefaultOptions returns KNN imputation with five distance-weighted
// neighbours and population standardization.
func DefaultOptions() Options {
	return Options{Strategy: StrategyKNN, Neighbors: 5, Weighting: WeightDistance, DDOF: 0}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if _, err := ParseWeighting(string(o.Weighting)); err != nil {
		return err
	}
	if o.Strategy == StrategyKNN && o.Neighbors < 1 {
		return fmt.Errorf("knn neighbors must be at least 1, got %d", o.Neighbors)
	}
	if o.DDOF != 0 && o.DDOF != 1 {
		return fmt.Errorf("normalize ddof must be 0 or 1, got %d", o.DDOF)
	}
	return nil
}

// Result is the output of Run.
type Result struct {
	Table          *table.Table
	Classification table.Classification
	Outliers       map[string]OutlierStat
	// Imputed counts filled cells per column, numeric and categorical.
	Imputed  map[string]int
	Warnings []string
}

// Run cleans a copy of t. The stages run in a fixed order: numeric
// imputation, outlier replacement, standardization, categorical mode fill.
// The input table is never modified.
func Run(t *table.Table, opt Options) (*Result, error) {
	if t == nil || t.Width() == 0 {
		return nil, &table.EmptyInputError{Reason: "no columns"}
	}
	if t.Rows() == 0 {
		return nil, &table.EmptyInputError{Filename: t.Name, Reason: "no data rows"}
	}
	if opt.Strategy == "" {
		opt.Strategy = StrategyKNN
	}
	if opt.Weighting == "" {
		opt.Weighting = WeightDistance
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	work := t.Clone()
	res := &Result{Table: work, Classification: work.Classify(), Imputed: map[string]int{}}

	var (
		filled map[string]int
		err    error
	)
	switch opt.Strategy {
	case StrategyMean:
		filled, err = ImputeMean(work)
	default:
		filled, err = ImputeKNN(work, opt.Neighbors, opt.Weighting)
	}
	if err != nil {
		return nil, err
	}
	merge(res.Imputed, filled)

	res.Outliers = ReplaceOutliers(work)

	if err := Standardize(work, opt.DDOF); err != nil {
		return nil, err
	}

	modes, warns := FillMode(work)
	merge(res.Imputed, modes)
	res.Warnings = append(res.Warnings, warns...)
	return res, nil
}

// ReplacedTotal returns the number of outlier replacements over all columns.
func (r *Result) ReplacedTotal() int {
	n := 0
	for _, s := range r.Outliers {
		n += s.Replaced
	}
	return n
}

func merge(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}
