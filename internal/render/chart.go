// Package render draws the daily series for non-JSON surfaces.
package render

import (
	"errors"
	"io"
	"strconv"

	"casetracker/internal/models"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoData = errors.New("render: no chart points")

type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.Height <= 0 {
		o.Height = o.Width * 2 / 3
	}
	return o
}

// palette cycles per bar, like a "joyful" chart template.
var palette = []drawing.Color{
	{R: 217, G: 80, B: 138, A: 255},
	{R: 254, G: 149, B: 7, A: 255},
	{R: 254, G: 247, B: 120, A: 255},
	{R: 106, G: 167, B: 134, A: 255},
	{R: 53, G: 194, B: 209, A: 255},
}

// BarChart writes a PNG bar chart of points to w.
func BarChart(w io.Writer, points []models.ChartPoint, opts ChartOptions) error {
	if len(points) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	var maxCount int64
	bars := make([]chart.Value, len(points))
	for i, p := range points {
		if p.Count > maxCount {
			maxCount = p.Count
		}
		col := palette[i%len(palette)]
		bars[i] = chart.Value{
			Label: strconv.Itoa(p.Index),
			Value: float64(p.Count),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Fit every bar inside the canvas: two thirds bar, one third gap.
	slot := (opts.Width - 120) / len(points)
	if slot < 3 {
		slot = 3
	}

	bc := chart.BarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   slot * 2 / 3,
		BarSpacing: slot - slot*2/3,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}
