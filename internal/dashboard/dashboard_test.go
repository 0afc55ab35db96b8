package dashboard

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/trainusage/internal/feed"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/palette"
	"github.com/jusunglee/trainusage/internal/parser"
	"github.com/jusunglee/trainusage/internal/store"
)

const (
	t1      = "T1 North Shore Line & T1 Western Line"
	t4      = "T4 Eastern Suburbs & Illawarra Line"
	blueMts = "Blue Mountains Line"
	central = "Central Coast & Newcastle Line"
)

func sampleSnapshot(t *testing.T) *store.Snapshot {
	t.Helper()
	records, err := parser.ParseRecords(strings.NewReader(feed.SampleCSV))
	require.NoError(t, err)
	s := store.NewStore()
	s.UpdateRecords("sample", records)
	return s.Snapshot()
}

func TestSession(t *testing.T) {
	s := NewSession()

	st := s.State()
	assert.Empty(t, st.Selection)
	assert.Equal(t, models.ChartBar, st.ChartMode)
	assert.False(t, st.ShowPeaks)

	st = s.Select([]string{t1, t1, blueMts})
	assert.Equal(t, models.Selection{t1, blueMts}, st.Selection)

	st = s.Select([]string{central})
	assert.Equal(t, models.Selection{central}, st.Selection, "selection is replaced wholesale")

	assert.Equal(t, models.ChartTimeSeries, s.ToggleChartMode().ChartMode)
	assert.Equal(t, models.ChartBar, s.ToggleChartMode().ChartMode)
	assert.True(t, s.TogglePeaks().ShowPeaks)
	assert.False(t, s.TogglePeaks().ShowPeaks)
}

func TestSessionStateIsACopy(t *testing.T) {
	s := NewSession()
	s.Select([]string{t1})

	st := s.State()
	st.Selection[0] = "changed"
	assert.Equal(t, models.Selection{t1}, s.State().Selection)
}

func TestSessionConcurrentUse(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.ToggleChartMode()
			} else {
				s.Select([]string{t1})
			}
			_ = s.State()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, models.ChartBar, s.State().ChartMode)
}

func TestBuildEmptySelection(t *testing.T) {
	view := Build(sampleSnapshot(t), InitialState(), palette.Default())

	assert.Equal(t, EmptySelectionPrompt, view.Prompt)
	assert.Empty(t, view.Panels)
	assert.Empty(t, view.Peaks)
	assert.Equal(t, 14, view.Info.Records)
}

func TestBuildBarPanels(t *testing.T) {
	st := InitialState()
	st.Selection = models.NewSelection([]string{blueMts, t4, t1})

	view := Build(sampleSnapshot(t), st, palette.Default())

	require.Len(t, view.Panels, 2)
	assert.Empty(t, view.Prompt)
	assert.Empty(t, view.Peaks, "peaks hidden by default")

	metro := view.Panels[0]
	assert.Equal(t, models.Metro, metro.Category)
	assert.Equal(t, "Trips by Selected Sydney Lines", metro.Title)
	require.Len(t, metro.Bars, 2)
	assert.Equal(t, t1, metro.Bars[0].Line)
	assert.Equal(t, 1273, metro.Bars[0].Trips)
	assert.Equal(t, "#393b79", metro.Bars[0].Color)
	assert.Equal(t, t4, metro.Bars[1].Line)
	assert.Equal(t, 730, metro.Bars[1].Trips)

	regional := view.Panels[1]
	require.Len(t, regional.Bars, 1)
	assert.Equal(t, blueMts, regional.Bars[0].Line)
	assert.Equal(t, 48, regional.Bars[0].Trips)
}

func TestBuildTimeSeriesPanels(t *testing.T) {
	st := InitialState()
	st.ChartMode = models.ChartTimeSeries
	st.Selection = models.NewSelection([]string{t4, central})

	view := Build(sampleSnapshot(t), st, palette.Default())
	require.Len(t, view.Panels, 2)

	metro := view.Panels[0]
	assert.Empty(t, metro.Bars)
	require.Len(t, metro.Series, 1)
	assert.Equal(t, t4, metro.Series[0].Line)
	require.Len(t, metro.TimeSeries, 5)
	assert.Equal(t, "2024-09-02T06", metro.TimeSeries[0].Hour)
	assert.Equal(t, 0, metro.TimeSeries[0].Value(t4))
	assert.Equal(t, 210, metro.TimeSeries[1].Value(t4))

	regional := view.Panels[1]
	require.Len(t, regional.TimeSeries, 5)
	assert.Equal(t, 51, regional.TimeSeries[3].Value(central))
}

func TestBuildTimeSeriesIgnoresUnknownLines(t *testing.T) {
	st := InitialState()
	st.ChartMode = models.ChartTimeSeries
	st.Selection = models.NewSelection([]string{"T0 Imaginary Line"})

	view := Build(sampleSnapshot(t), st, palette.Default())
	require.Len(t, view.Panels, 2)
	assert.Empty(t, view.Panels[0].Series)
	assert.Empty(t, view.Panels[0].TimeSeries)
	assert.Equal(t, []string{"T0 Imaginary Line"}, view.UnknownLines)
}

func TestUnknownLines(t *testing.T) {
	reg := palette.Default()
	sel := models.NewSelection([]string{t1, "Mystery Line", central, "T0 Imaginary Line"})

	assert.Equal(t, []string{"Mystery Line", "T0 Imaginary Line"}, UnknownLines(reg, sel))
	assert.Empty(t, UnknownLines(reg, models.NewSelection([]string{t1, blueMts})))
}

func TestBuildPeaks(t *testing.T) {
	st := InitialState()
	st.ShowPeaks = true
	st.Selection = models.NewSelection([]string{t4, t1, central})

	view := Build(sampleSnapshot(t), st, palette.Default())
	require.Len(t, view.Peaks, 2)

	metro := view.Peaks[0]
	assert.Equal(t, "Sydney Lines", metro.Title)
	require.Len(t, metro.Peaks, 2)
	assert.Equal(t, t1, metro.Peaks[0].Line)
	assert.Equal(t, "08:00", metro.Peaks[0].Label)
	assert.Equal(t, 415, metro.Peaks[0].Trips)
	assert.Equal(t, t4, metro.Peaks[1].Line)
	assert.Equal(t, "08", metro.Peaks[1].Hour)

	regional := view.Peaks[1]
	require.Len(t, regional.Peaks, 1)
	assert.Equal(t, "17:00", regional.Peaks[0].Label)
	assert.Equal(t, "#2ca02c", regional.Peaks[0].Color)
}
