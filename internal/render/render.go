// Package render draws dashboard panels as SVG or PNG charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jusunglee/trainusage/internal/analysis"
	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/palette"
)

// ErrNoData is returned when a panel has nothing to plot
var ErrNoData = errors.New("no chart data for panel")

// Format is an output image format
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat accepts svg or png
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case SVG:
		return SVG, nil
	case PNG:
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType is the HTTP content type for the format
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

const (
	defaultWidth  = 1024
	defaultHeight = 450
	barWidth      = 40
	barSpacing    = 20
	// one tick label every six hours keeps the axis readable
	tickInterval = 6
)

// Panel renders a dashboard panel in its own chart mode
func Panel(w io.Writer, panel dashboard.Panel, format Format) error {
	if panel.Mode == models.ChartTimeSeries {
		return TimeSeries(w, panel, format)
	}
	return Bars(w, panel, format)
}

// Bars draws one bar per line
func Bars(w io.Writer, panel dashboard.Panel, format Format) error {
	if len(panel.Bars) == 0 {
		return ErrNoData
	}

	maxTrips := 1
	bars := make([]chart.Value, 0, len(panel.Bars))
	for _, b := range panel.Bars {
		if b.Trips > maxTrips {
			maxTrips = b.Trips
		}
		color := parseColor(b.Color)
		bars = append(bars, chart.Value{
			Label: b.Line,
			Value: float64(b.Trips),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
	}

	width := len(bars)*(barWidth+barSpacing) + 200
	if width < defaultWidth {
		width = defaultWidth
	}

	bc := chart.BarChart{
		Title:  panel.Title,
		Width:  width,
		Height: defaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 100},
		},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis: chart.Style{
			FontSize:            9,
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxTrips)},
		},
		Bars: bars,
	}

	if err := bc.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// TimeSeries draws one line per selected line across the hour axis
func TimeSeries(w io.Writer, panel dashboard.Panel, format Format) error {
	if len(panel.Series) == 0 || len(panel.TimeSeries) == 0 {
		return ErrNoData
	}

	rows := panel.TimeSeries
	if len(rows) == 1 {
		// go-chart needs two distinct x values
		rows = []models.TimeSeriesRow{rows[0], rows[0]}
	}

	xs := make([]float64, len(rows))
	var ticks []chart.Tick
	for i, row := range rows {
		xs[i] = float64(i)
		if i%tickInterval == 0 || i == len(rows)-1 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: analysis.HourOfDay(row.Hour) + ":00"})
		}
	}

	maxTrips := 1
	series := make([]chart.Series, 0, len(panel.Series))
	for _, s := range panel.Series {
		ys := make([]float64, len(rows))
		for i, row := range rows {
			v := row.Value(s.Line)
			if v > maxTrips {
				maxTrips = v
			}
			ys[i] = float64(v)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Line,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: parseColor(s.Color),
				StrokeWidth: 2,
			},
		})
	}

	maxX := float64(len(xs) - 1)

	ch := chart.Chart{
		Title:  panel.Title,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 100},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxX},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxTrips)},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render time-series chart: %w", err)
	}
	return nil
}

func parseColor(color string) drawing.Color {
	hex := palette.Hex(color)
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.ColorFromHex(palette.Hex(palette.DefaultFallback))
	}
	return drawing.ColorFromHex(hex)
}
