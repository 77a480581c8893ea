package visual

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/datasys-cli/internal/table"
	"gonum.org/v1/gonum/stat"
)

// FigureKind distinguishes the two plot families.
type FigureKind string

const (
	Scatter    FigureKind = "scatter"
	Regression FigureKind = "regression"
)

var (
	// ErrNoPoints means a pair had no complete observations to draw.
	ErrNoPoints = errors.New("no complete observations")
	// ErrDegenerateFit means a trend line cannot be fitted (fewer than two points or constant x).
	ErrDegenerateFit = errors.New("cannot fit a line")
)

// Fit is a least-squares line y = Alpha + Beta*x with Pearson R.
type Fit struct {
	Alpha, Beta, R float64
}

// At evaluates the line at x.
func (f Fit) At(x float64) float64 { return f.Alpha + f.Beta*x }

// FitLine computes an ordinary least-squares fit.
func FitLine(xs, ys []float64) (Fit, error) {
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return Fit{}, ErrDegenerateFit
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		r = 0
	}
	return Fit{Alpha: alpha, Beta: beta, R: r}, nil
}

// Figure is one rendered plot.
type Figure struct {
	Pair  Pair
	Kind  FigureKind
	Label string // section heading
	Title string // plot title
	Fit   *Fit
	PNG   []byte
}

// Set is the output of one render pass over a table.
type Set struct {
	Kind    FigureKind
	Figures []Figure
	// Warning is set when fewer than two numeric columns exist.
	Warning string
	// Errors lists pairs that failed to render; other figures are still produced.
	Errors []string
}

// Renderer encodes figures as PNG images.
type Renderer interface {
	Scatter(p Pair, xs, ys []float64, title string) ([]byte, error)
	Regression(p Pair, xs, ys []float64, fit Fit, title string) ([]byte, error)
}

// RenderScatter draws one point cloud per numeric pair.
func RenderScatter(t *table.Table, r Renderer) Set {
	set := Set{Kind: Scatter}
	pairs := NumericPairs(t)
	if len(pairs) == 0 {
		set.Warning = "Not enough numeric columns to generate scatter plots."
		return set
	}
	for _, p := range pairs {
		xs, ys := points(t, p)
		fig := Figure{Pair: p, Kind: Scatter, Label: "Scatter: " + p.String(), Title: p.String()}
		if len(xs) == 0 {
			set.Errors = append(set.Errors, fmt.Sprintf("%s: %v", fig.Label, ErrNoPoints))
			continue
		}
		img, err := r.Scatter(p, xs, ys, fig.Title)
		if err != nil {
			set.Errors = append(set.Errors, fmt.Sprintf("%s: %v", fig.Label, err))
			continue
		}
		fig.PNG = img
		set.Figures = append(set.Figures, fig)
	}
	return set
}

// RenderRegression draws each numeric pair with a fitted linear trend line.
func RenderRegression(t *table.Table, r Renderer) Set {
	set := Set{Kind: Regression}
	pairs := NumericPairs(t)
	if len(pairs) == 0 {
		set.Warning = "Not enough numeric columns to generate regression plots."
		return set
	}
	for _, p := range pairs {
		xs, ys := points(t, p)
		fig := Figure{Pair: p, Kind: Regression, Label: "Regression: " + p.String(), Title: p.String() + " (Regression)"}
		fit, err := FitLine(xs, ys)
		if err != nil {
			set.Errors = append(set.Errors, fmt.Sprintf("%s: %v", fig.Label, err))
			continue
		}
		img, err := r.Regression(p, xs, ys, fit, fig.Title)
		if err != nil {
			set.Errors = append(set.Errors, fmt.Sprintf("%s: %v", fig.Label, err))
			continue
		}
		fig.Fit = &fit
		fig.PNG = img
		set.Figures = append(set.Figures, fig)
	}
	return set
}
