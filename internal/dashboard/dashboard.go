// Package dashboard owns the user-facing state (selected lines, chart mode,
// peak visibility) and builds the view shown for a dataset snapshot.
package dashboard

import (
	"sync"

	"github.com/jusunglee/trainusage/internal/analysis"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/palette"
	"github.com/jusunglee/trainusage/internal/store"
)

// EmptySelectionPrompt is shown instead of charts when nothing is selected
const EmptySelectionPrompt = "Please select at least one line to display the charts and peak times."

// State is one snapshot of the dashboard controls
type State struct {
	Selection models.Selection `json:"selection"`
	ChartMode models.ChartMode `json:"chart_mode"`
	ShowPeaks bool             `json:"show_peaks"`
}

// InitialState is empty selection, bar chart, peaks hidden
func InitialState() State {
	return State{
		Selection: models.Selection{},
		ChartMode: models.ChartBar,
	}
}

// Session is the mutable current-state cell. Every change replaces the
// State wholesale.
type Session struct {
	mu    sync.RWMutex
	state State
}

// NewSession starts from InitialState
func NewSession() *Session {
	return &Session{state: InitialState()}
}

// State returns a copy of the current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Select replaces the selection
func (s *Session) Select(lines []string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selection = models.NewSelection(lines)
	return s.state.clone()
}

// ToggleChartMode flips between bar and time-series
func (s *Session) ToggleChartMode() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChartMode = s.state.ChartMode.Toggle()
	return s.state.clone()
}

// TogglePeaks shows or hides the peak times
func (s *Session) TogglePeaks() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowPeaks = !s.state.ShowPeaks
	return s.state.clone()
}

func (st State) clone() State {
	st.Selection = append(models.Selection{}, st.Selection...)
	return st
}

// ColoredBar is a bar row with its display color
type ColoredBar struct {
	models.BarRow
	Color string `json:"color"`
}

// Series describes one line plotted on a time-series chart
type Series struct {
	Line  string `json:"line"`
	Color string `json:"color"`
}

// ColoredPeak is a peak entry ready for display
type ColoredPeak struct {
	models.PeakEntry
	Label string `json:"label"`
	Color string `json:"color"`
}

// Panel is the chart for one category
type Panel struct {
	Category   models.Category        `json:"category"`
	Title      string                 `json:"title"`
	Mode       models.ChartMode       `json:"mode"`
	Bars       []ColoredBar           `json:"bars,omitempty"`
	Series     []Series               `json:"series,omitempty"`
	TimeSeries []models.TimeSeriesRow `json:"timeseries,omitempty"`
}

// PeakGroup lists the peak times for one category
type PeakGroup struct {
	Category models.Category `json:"category"`
	Title    string          `json:"title"`
	Peaks    []ColoredPeak   `json:"peaks"`
}

// View is everything the presentation layer needs to draw the dashboard
type View struct {
	State  State              `json:"state"`
	Prompt string             `json:"prompt,omitempty"`
	Panels []Panel            `json:"panels,omitempty"`
	Peaks  []PeakGroup        `json:"peaks,omitempty"`
	Info   models.DatasetInfo `json:"dataset"`
	// UnknownLines are selected lines missing from the registry. They can
	// still show as bars but never get a time-series column.
	UnknownLines []string `json:"unknown_lines,omitempty"`
}

// Build computes the view for a snapshot and state. It does not touch any
// shared state.
func Build(snap *store.Snapshot, st State, reg *palette.Registry) View {
	view := View{State: st, Info: snap.Info(), UnknownLines: UnknownLines(reg, st.Selection)}

	if st.Selection.Empty() {
		view.Prompt = EmptySelectionPrompt
		return view
	}

	for _, category := range models.Categories {
		view.Panels = append(view.Panels, BuildPanel(snap, category, st.ChartMode, st.Selection, reg))
	}

	if st.ShowPeaks {
		for _, category := range models.Categories {
			view.Peaks = append(view.Peaks, BuildPeaks(snap, category, st.Selection, reg))
		}
	}

	return view
}

// BuildPanel shapes one category's chart data
func BuildPanel(snap *store.Snapshot, category models.Category, mode models.ChartMode, selected models.Selection, reg *palette.Registry) Panel {
	panel := Panel{
		Category: category,
		Title:    "Trips by Selected " + category.Title(),
		Mode:     mode,
	}

	if mode == models.ChartBar {
		for _, row := range analysis.ToBarRows(snap.Aggregates[category], selected) {
			panel.Bars = append(panel.Bars, ColoredBar{BarRow: row, Color: reg.Color(row.Line)})
		}
		return panel
	}

	columns := PanelLines(reg, category, selected)
	for _, line := range columns {
		panel.Series = append(panel.Series, Series{Line: line, Color: reg.Color(line)})
	}
	if len(columns) > 0 {
		panel.TimeSeries = analysis.ToTimeSeriesRows(snap.Records, columns)
	}
	return panel
}

// UnknownLines returns the selected lines the registry does not list
func UnknownLines(reg *palette.Registry, selected models.Selection) []string {
	var unknown []string
	for _, line := range selected {
		if !reg.Known(line) {
			unknown = append(unknown, line)
		}
	}
	return unknown
}

// PanelLines is the registry's lines of category that are selected, in
// registry order
func PanelLines(reg *palette.Registry, category models.Category, selected models.Selection) models.Selection {
	var lines models.Selection
	for _, line := range reg.LinesIn(category) {
		if selected.Contains(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// BuildPeaks lists the peak hour of every selected line in category
func BuildPeaks(snap *store.Snapshot, category models.Category, selected models.Selection, reg *palette.Registry) PeakGroup {
	group := PeakGroup{
		Category: category,
		Title:    category.Title(),
		Peaks:    []ColoredPeak{},
	}
	for _, p := range analysis.OrderedPeaks(snap.Aggregates[category], snap.Peaks[category], selected) {
		group.Peaks = append(group.Peaks, ColoredPeak{
			PeakEntry: p,
			Label:     p.Label(),
			Color:     reg.Color(p.Line),
		})
	}
	return group
}
