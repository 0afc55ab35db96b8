package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/models"
)

func barPanel() dashboard.Panel {
	return dashboard.Panel{
		Category: models.Metro,
		Title:    "Trips by Selected Sydney Lines",
		Mode:     models.ChartBar,
		Bars: []dashboard.ColoredBar{
			{BarRow: models.BarRow{Line: "T1 North Shore Line & T1 Western Line", Trips: 1273}, Color: "#393b79"},
			{BarRow: models.BarRow{Line: "T4 Eastern Suburbs & Illawarra Line", Trips: 730}, Color: "#e6550d"},
		},
	}
}

func timeSeriesPanel() dashboard.Panel {
	lines := []string{"T4 Eastern Suburbs & Illawarra Line"}
	hours := []string{"2024-09-02T06", "2024-09-02T07", "2024-09-02T08", "2024-09-02T17"}
	values := []int{0, 210, 260, 260}

	panel := dashboard.Panel{
		Category: models.Metro,
		Title:    "Trips by Selected Sydney Lines",
		Mode:     models.ChartTimeSeries,
		Series:   []dashboard.Series{{Line: lines[0], Color: "#e6550d"}},
	}
	for i, hour := range hours {
		panel.TimeSeries = append(panel.TimeSeries, models.TimeSeriesRow{
			Hour:   hour,
			Lines:  lines,
			Values: map[string]int{lines[0]: values[i]},
		})
	}
	return panel
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestBarsSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Panel(&buf, barPanel(), SVG))
	assert.Contains(t, buf.String(), "<svg")
}

func TestBarsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Bars(&buf, barPanel(), PNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestTimeSeriesSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Panel(&buf, timeSeriesPanel(), SVG))
	assert.Contains(t, buf.String(), "<svg")
}

func TestTimeSeriesSingleHour(t *testing.T) {
	panel := timeSeriesPanel()
	panel.TimeSeries = panel.TimeSeries[2:3]

	var buf bytes.Buffer
	require.NoError(t, TimeSeries(&buf, panel, SVG))
	assert.Contains(t, buf.String(), "<svg")
	assert.Len(t, panel.TimeSeries, 1, "panel rows are not modified")
}

func TestTimeSeriesLongAxisPNG(t *testing.T) {
	panel := timeSeriesPanel()
	line := panel.Series[0].Line
	panel.TimeSeries = nil
	for h := 0; h < 24; h++ {
		panel.TimeSeries = append(panel.TimeSeries, models.TimeSeriesRow{
			Hour:   fmt.Sprintf("2024-09-02T%02d", h),
			Lines:  []string{line},
			Values: map[string]int{line: h * 10},
		})
	}

	var buf bytes.Buffer
	require.NoError(t, TimeSeries(&buf, panel, PNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestEmptyPanels(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Bars(&buf, dashboard.Panel{Mode: models.ChartBar}, SVG), ErrNoData)
	assert.ErrorIs(t, TimeSeries(&buf, dashboard.Panel{Mode: models.ChartTimeSeries}, SVG), ErrNoData)
}

func TestParseColorFallsBack(t *testing.T) {
	assert.Equal(t, parseColor("#82ca9d"), parseColor("not-a-color"))
	assert.NotEqual(t, parseColor("#82ca9d"), parseColor("#393b79"))
}
