package clean

import (
	"math"
	"sort"
)

// IQRMultiplier scales the interquartile range into outlier fences.
const IQRMultiplier = 1.5

// Bounds are inclusive outlier fences for one column.
type Bounds struct {
	Q1, Q3 float64
	Lower  float64
	Upper  float64
}

// IQR returns Q3 - Q1.
func (b Bounds) IQR() float64 { return b.Q3 - b.Q1 }

// Contains reports whether v lies within the fences.
func (b Bounds) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

// FencesFor computes Q1/Q3 with linear interpolation and the 1.5·IQR fences.
func FencesFor(vals []float64) Bounds {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	q1 := quantile(cp, 0.25)
	q3 := quantile(cp, 0.75)
	iqr := q3 - q1
	return Bounds{Q1: q1, Q3: q3, Lower: q1 - IQRMultiplier*iqr, Upper: q3 + IQRMultiplier*iqr}
}

// quantile interpolates linearly between closest ranks at position q·(n-1).
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
