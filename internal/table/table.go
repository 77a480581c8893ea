package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// ErrLengthMismatch is returned when columns of a table disagree on row count.
var ErrLengthMismatch = errors.New("column lengths differ")

// Column is a named, typed sequence of cells with a null mask.
// Nums is populated for numeric columns, Strs for categorical ones.
type Column struct {
	Name string
	Kind Kind
	Nums []float64
	Strs []string
	Null []bool
}

// NewNumeric builds a numeric column. NaN values are treated as null.
func NewNumeric(name string, vals []float64) *Column {
	c := &Column{Name: name, Kind: Numeric, Nums: make([]float64, len(vals)), Null: make([]bool, len(vals))}
	for i, v := range vals {
		if math.IsNaN(v) {
			c.Null[i] = true
			continue
		}
		c.Nums[i] = v
	}
	return c
}

// NewCategorical builds a categorical column. Empty strings are treated as null.
func NewCategorical(name string, vals []string) *Column {
	c := &Column{Name: name, Kind: Categorical, Strs: make([]string, len(vals)), Null: make([]bool, len(vals))}
	for i, v := range vals {
		if v == "" {
			c.Null[i] = true
			continue
		}
		c.Strs[i] = v
	}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Null) }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.Null {
		if isNull {
			n++
		}
	}
	return n
}

// Present returns the non-null numeric values in row order.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Cell renders a single cell as text; nulls render as the empty string.
func (c *Column) Cell(i int) string {
	if c.Null[i] {
		return ""
	}
	if c.Kind == Numeric {
		return FormatNumber(c.Nums[i])
	}
	return c.Strs[i]
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Null: append([]bool(nil), c.Null...)}
	if c.Nums != nil {
		out.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Strs != nil {
		out.Strs = append([]string(nil), c.Strs...)
	}
	return out
}

func (c *Column) pick(keep []bool) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	for i, k := range keep {
		if !k {
			continue
		}
		out.Null = append(out.Null, c.Null[i])
		if c.Kind == Numeric {
			out.Nums = append(out.Nums, c.Nums[i])
		} else {
			out.Strs = append(out.Strs, c.Strs[i])
		}
	}
	if out.Null == nil {
		out.Null = []bool{}
		if c.Kind == Numeric {
			out.Nums = []float64{}
		} else {
			out.Strs = []string{}
		}
	}
	return out
}

// Table is an ordered collection of equal-length columns.
// Operations that change shape return a new Table and leave the receiver untouched.
type Table struct {
	Name string
	Cols []*Column
}

// New assembles a table, verifying that all columns have the same length.
func New(name string, cols ...*Column) (*Table, error) {
	for _, c := range cols {
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrLengthMismatch, cols[0].Name, cols[0].Len(), c.Name, c.Len())
		}
	}
	return &Table{Name: name, Cols: cols}, nil
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return t.Cols[0].Len()
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		out[i] = c.Name
	}
	return out
}

// NumericNames returns the names of numeric columns in table order.
func (t *Table) NumericNames() []string {
	var out []string
	for _, c := range t.Cols {
		if c.Kind == Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Cols: make([]*Column, len(t.Cols))}
	for i, c := range t.Cols {
		out.Cols[i] = c.Clone()
	}
	return out
}

// Filter returns a new table holding only rows where keep[i] is true.
func (t *Table) Filter(keep []bool) *Table {
	out := &Table{Name: t.Name, Cols: make([]*Column, len(t.Cols))}
	for i, c := range t.Cols {
		out.Cols[i] = c.pick(keep)
	}
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	rows := t.Rows()
	keep := make([]bool, rows)
	for i := 0; i < rows && i < n; i++ {
		keep[i] = true
	}
	return t.Filter(keep)
}

// Record renders row i as text cells.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.Cols))
	for j, c := range t.Cols {
		rec[j] = c.Cell(i)
	}
	return rec
}

// NullCount returns the total number of null cells.
func (t *Table) NullCount() int {
	n := 0
	for _, c := range t.Cols {
		n += c.NullCount()
	}
	return n
}

// FormatNumber renders a float without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
