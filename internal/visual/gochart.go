package visual

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartRenderer draws figures with go-chart. go-chart needs a non-zero range on
// both axes, so constant columns fail to render and are reported per pair.
type ChartRenderer struct {
	Width, Height int
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color, dot float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    dot,
		DotColor:    col,
	}
}

func (c ChartRenderer) chart(p Pair, title string, series ...chart.Series) chart.Chart {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 480
	}
	if h <= 0 {
		h = 360
	}
	return chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: p.X},
		YAxis:      chart.YAxis{Name: p.Y},
		Series:     series,
	}
}

func render(ch chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Scatter renders the raw point cloud.
func (c ChartRenderer) Scatter(p Pair, xs, ys []float64, title string) ([]byte, error) {
	pts := chart.ContinuousSeries{Name: p.String(), XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue, 4)}
	return render(c.chart(p, title, pts))
}

// Regression renders the point cloud with go-chart's linear regression overlay.
func (c ChartRenderer) Regression(p Pair, xs, ys []float64, _ Fit, title string) ([]byte, error) {
	pts := chart.ContinuousSeries{Name: p.String(), XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue, 2.5)}
	trend := &chart.LinearRegressionSeries{
		Name:        "trend",
		InnerSeries: pts,
		Style:       chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
	}
	return render(c.chart(p, title, pts, trend))
}
