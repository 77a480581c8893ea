package visual

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	pointColor = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	lineColor  = color.RGBA{R: 255, A: 255}
)

// GonumRenderer draws figures with gonum/plot.
type GonumRenderer struct {
	Width, Height vg.Length
}

// NewGonumRenderer sizes the canvas in pixels (at 96 dpi).
func NewGonumRenderer(widthPx, heightPx int) GonumRenderer {
	return GonumRenderer{Width: pixels(widthPx), Height: pixels(heightPx)}
}

func pixels(px int) vg.Length {
	if px <= 0 {
		px = 480
	}
	return vg.Length(px) * vg.Inch / 96
}

func (g GonumRenderer) base(p Pair, title string) *plot.Plot {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = p.X
	pl.Y.Label.Text = p.Y
	pl.Add(plotter.NewGrid())
	return pl
}

func (g GonumRenderer) scatter(pl *plot.Plot, xs, ys []float64, radius vg.Length) error {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Color = pointColor
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	pl.Add(s)
	return nil
}

// Scatter renders the raw point cloud.
func (g GonumRenderer) Scatter(p Pair, xs, ys []float64, title string) ([]byte, error) {
	pl := g.base(p, title)
	if err := g.scatter(pl, xs, ys, vg.Points(2.5)); err != nil {
		return nil, err
	}
	return g.encode(pl)
}

// Regression renders the point cloud with the fitted line across the x range.
func (g GonumRenderer) Regression(p Pair, xs, ys []float64, fit Fit, title string) ([]byte, error) {
	pl := g.base(p, title)
	if err := g.scatter(pl, xs, ys, vg.Points(1.5)); err != nil {
		return nil, err
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: fit.At(lo)}, {X: hi, Y: fit.At(hi)}})
	if err != nil {
		return nil, fmt.Errorf("trend line: %w", err)
	}
	l.Color = lineColor
	l.LineStyle.Width = vg.Points(2)
	pl.Add(l)
	pl.Legend.Add(fmt.Sprintf("y = %.3g + %.3g·x (r=%.3f)", fit.Alpha, fit.Beta, fit.R), l)
	pl.Legend.Top = true
	return g.encode(pl)
}

func (g GonumRenderer) encode(pl *plot.Plot) ([]byte, error) {
	wt, err := pl.WriterTo(g.Width, g.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
