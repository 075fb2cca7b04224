package analysis

import (
	"encoding/json"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// IQRMultiplier scales the interquartile range into outlier fences.
const IQRMultiplier = 1.5

// Fence holds the IQR outlier bounds of one column.
type Fence struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower_bound"`
	Upper float64 `json:"upper_bound"`
}

// Outside reports whether v lies strictly outside the fence.
func (f Fence) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// Bounds computes the IQR fence of vals. ok is false when vals is empty.
func Bounds(vals []float64) (f Fence, ok bool) {
	if len(vals) == 0 {
		return Fence{}, false
	}
	sorted := sortedCopy(vals)
	f.Q1 = quantile(sorted, 0.25)
	f.Q3 = quantile(sorted, 0.75)
	f.IQR = f.Q3 - f.Q1
	f.Lower = f.Q1 - IQRMultiplier*f.IQR
	f.Upper = f.Q3 + IQRMultiplier*f.IQR
	return f, true
}

// OutlierReport counts the IQR outliers of every numeric column.
type OutlierReport struct {
	Order  []string
	Counts map[string]int
	Fences map[string]Fence
}

// MarshalJSON encodes the report as {column: count}.
func (r OutlierReport) MarshalJSON() ([]byte, error) {
	if r.Counts == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Counts)
}

// Total returns the number of outliers over all columns.
func (r OutlierReport) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Outliers detects IQR outliers per numeric column without modifying t.
// Missing cells are ignored.
func Outliers(t *table.Table) OutlierReport {
	rep := OutlierReport{Counts: map[string]int{}, Fences: map[string]Fence{}}
	for _, c := range t.NumericColumns() {
		rep.Order = append(rep.Order, c.Name)
		vals := c.Valid()
		f, ok := Bounds(vals)
		if !ok {
			rep.Counts[c.Name] = 0
			continue
		}
		rep.Fences[c.Name] = f
		n := 0
		for _, v := range vals {
			if f.Outside(v) {
				n++
			}
		}
		rep.Counts[c.Name] = n
	}
	return rep
}
