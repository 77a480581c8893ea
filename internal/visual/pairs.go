package visual

import (
	"math"

	"github.com/KaramelBytes/datasys-cli/internal/table"
)

// Pair is an unordered pair of distinct numeric columns.
type Pair struct {
	X, Y string
}

func (p Pair) String() string { return p.X + " vs " + p.Y }

// NumericPairs enumerates all C(n,2) pairs of numeric columns in table order;
// the first column advances slowest.
func NumericPairs(t *table.Table) []Pair {
	names := t.NumericNames()
	var out []Pair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			out = append(out, Pair{X: names[i], Y: names[j]})
		}
	}
	return out
}

// points returns the finite (x, y) observations of a pair, skipping rows where either side is null.
func points(t *table.Table, p Pair) (xs, ys []float64) {
	cx, okx := t.Column(p.X)
	cy, oky := t.Column(p.Y)
	if !okx || !oky {
		return nil, nil
	}
	for i := 0; i < t.Rows(); i++ {
		if cx.Null[i] || cy.Null[i] {
			continue
		}
		x, y := cx.Nums[i], cy.Nums[i]
		if math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
