package clean

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/datasys-cli/internal/table"
	"gonum.org/v1/gonum/stat"
)

// DefaultMissingThreshold is the missing ratio above which a column is dropped.
const DefaultMissingThreshold = 0.7

// ErrAllNullColumn is returned when a kept column has no values to impute from.
var ErrAllNullColumn = errors.New("column has no non-null values to impute from")

// Options controls cleaning behavior.
type Options struct {
	// MissingThreshold drops columns whose missing ratio is strictly greater.
	MissingThreshold float64
}

// DefaultOptions returns the fixed cleaning configuration.
func DefaultOptions() Options {
	return Options{MissingThreshold: DefaultMissingThreshold}
}

// Report lists the actions taken by Clean, in order.
type Report []string

// String renders one bullet per action.
func (r Report) String() string {
	var b strings.Builder
	for _, step := range r {
		b.WriteString("• ")
		b.WriteString(step)
		b.WriteString("\n")
	}
	return b.String()
}

// Clean imputes or drops columns with missing values, then removes IQR outliers
// column by column. The input table is not modified.
func Clean(t *table.Table, opt Options) (*table.Table, Report, error) {
	var report Report
	if t.Rows() == 0 {
		return t.Clone(), report, nil
	}

	kept := make([]*table.Column, 0, len(t.Cols))
	for _, c := range t.Cols {
		ratio := table.MissingRatio(c)
		if ratio > opt.MissingThreshold {
			report = append(report, fmt.Sprintf("Column '%s' dropped (missing: %.0f%%)", c.Name, ratio*100))
			continue
		}
		switch c.Kind {
		case table.Categorical:
			fill, ok := Mode(c)
			if !ok {
				return nil, nil, fmt.Errorf("fill %q: %w", c.Name, ErrAllNullColumn)
			}
			kept = append(kept, fillText(c, fill))
			report = append(report, fmt.Sprintf("Filled categorical column '%s' with mode: %s", c.Name, fill))
		default:
			vals := c.Present()
			if len(vals) == 0 {
				return nil, nil, fmt.Errorf("fill %q: %w", c.Name, ErrAllNullColumn)
			}
			mean := stat.Mean(vals, nil)
			kept = append(kept, fillNumber(c, mean))
			report = append(report, fmt.Sprintf("Filled numeric column '%s' with mean: %.2f", c.Name, mean))
		}
	}
	out := &table.Table{Name: t.Name, Cols: kept}

	// Columns are addressed by position; Filter keeps column order.
	for j := range out.Cols {
		c := out.Cols[j]
		if c.Kind != table.Numeric {
			continue
		}
		b := FencesFor(c.Nums)
		keep := make([]bool, out.Rows())
		removed := 0
		for i, v := range c.Nums {
			keep[i] = b.Contains(v)
			if !keep[i] {
				removed++
			}
		}
		if removed > 0 {
			out = out.Filter(keep)
			report = append(report, fmt.Sprintf("Removed %d outliers from column '%s'", removed, c.Name))
		}
	}
	return out, report, nil
}

// Mode returns the most frequent non-null value of a categorical column.
// Ties go to the value seen first.
func Mode(c *table.Column) (string, bool) {
	counts := map[string]int{}
	var order []string
	for i, v := range c.Strs {
		if c.Null[i] {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestN := "", 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, bestN > 0
}

func fillText(c *table.Column, v string) *table.Column {
	out := c.Clone()
	for i := range out.Null {
		if out.Null[i] {
			out.Strs[i] = v
			out.Null[i] = false
		}
	}
	return out
}

func fillNumber(c *table.Column, v float64) *table.Column {
	out := c.Clone()
	for i := range out.Null {
		if out.Null[i] {
			out.Nums[i] = v
			out.Null[i] = false
		}
	}
	return out
}
