// Package table holds the in-memory tabular model shared by the loader,
// the cleaning pipeline and the reporting code.
package table

import (
	"fmt"
	"strconv"
)

// Kind is the classification of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named sequence of values. Numeric columns store values in Num,
// categorical columns in Str. Null marks missing cells for both kinds.
type Column struct {
	Name string
	Kind Kind
	Num  []float64
	Str  []string
	Null []bool
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Null) }

// IsMissing reports whether cell i holds the missing marker.
func (c *Column) IsMissing(i int) bool { return c.Null[i] }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Null {
		if m {
			n++
		}
	}
	return n
}

// Valid returns the non-missing numeric values in row order.
// It returns nil for categorical columns.
func (c *Column) Valid() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Num))
	for i, v := range c.Num {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Cell renders cell i as text; missing cells render as "".
func (c *Column) Cell(i int) string {
	if c.Null[i] {
		return ""
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Num[i], 'g', -1, 64)
	}
	return c.Str[i]
}

// Value returns cell i as a float64, string or nil when missing.
func (c *Column) Value(i int) any {
	if c.Null[i] {
		return nil
	}
	if c.Kind == KindNumeric {
		return c.Num[i]
	}
	return c.Str[i]
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind, Null: append([]bool(nil), c.Null...)}
	if c.Num != nil {
		cp.Num = append([]float64(nil), c.Num...)
	}
	if c.Str != nil {
		cp.Str = append([]string(nil), c.Str...)
	}
	return cp
}

// Table is an ordered set of equally long columns.
type Table struct {
	Name    string
	Columns []*Column
}

// New creates an empty table.
func New(name string) *Table {
	return &Table{Name: name}
}

// Rows returns the row count (0 for a table without columns).
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.Columns) }

// AddNumeric appends a numeric column. A nil null slice means no missing cells.
func (t *Table) AddNumeric(name string, vals []float64, null []bool) error {
	if null == nil {
		null = make([]bool, len(vals))
	}
	if len(null) != len(vals) {
		return fmt.Errorf("column %q: %d values but %d null flags", name, len(vals), len(null))
	}
	return t.add(&Column{Name: name, Kind: KindNumeric, Num: vals, Null: null})
}

// AddCategorical appends a categorical column. A nil null slice means no missing cells.
func (t *Table) AddCategorical(name string, vals []string, null []bool) error {
	if null == nil {
		null = make([]bool, len(vals))
	}
	if len(null) != len(vals) {
		return fmt.Errorf("column %q: %d values but %d null flags", name, len(vals), len(null))
	}
	return t.add(&Column{Name: name, Kind: KindCategorical, Str: vals, Null: null})
}

func (t *Table) add(c *Column) error {
	if len(t.Columns) > 0 && c.Len() != t.Rows() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.Rows())
	}
	if _, ok := t.Column(c.Name); ok {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns the numeric columns in table order.
func (t *Table) NumericColumns() []*Column { return t.byKind(KindNumeric) }

// CategoricalColumns returns the categorical columns in table order.
func (t *Table) CategoricalColumns() []*Column { return t.byKind(KindCategorical) }

func (t *Table) byKind(k Kind) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Record renders row i as strings in column order.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Cell(i)
	}
	return out
}

// Clone returns a deep copy that shares no slices with t.
func (t *Table) Clone() *Table {
	cp := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		cp.Columns[i] = c.clone()
	}
	return cp
}

// Classification maps column names to their kind. It is taken once when a
// pipeline starts and stays fixed for the rest of the run.
type Classification struct {
	Order []string
	Kinds map[string]Kind
}

// Classify snapshots the current column kinds.
func (t *Table) Classify() Classification {
	cl := Classification{Order: t.Header(), Kinds: make(map[string]Kind, len(t.Columns))}
	for _, c := range t.Columns {
		cl.Kinds[c.Name] = c.Kind
	}
	return cl
}

// Numeric returns the names classified as numeric, in table order.
func (cl Classification) Numeric() []string { return cl.names(KindNumeric) }

// Categorical returns the names classified as categorical, in table order.
func (cl Classification) Categorical() []string { return cl.names(KindCategorical) }

func (cl Classification) names(k Kind) []string {
	var out []string
	for _, n := range cl.Order {
		if cl.Kinds[n] == k {
			out = append(out, n)
		}
	}
	return out
}
