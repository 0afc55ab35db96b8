package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MetroPrefix marks a Sydney metro line; every other line is regional
const MetroPrefix = "T"

// HourKeyLength is the length of a YYYY-MM-DDTHH hour bucket
const HourKeyLength = 13

// TripRecord is one parsed CSV row
type TripRecord struct {
	Line  string `json:"line"`
	Trips int    `json:"trips"`
	Hour  string `json:"hour"`
}

// LineHourAggregate holds per-hour trip totals for a single line.
// Hours keeps the order in which each hour bucket was first seen.
type LineHourAggregate struct {
	Line   string         `json:"line"`
	Hours  []string       `json:"hours"`
	Totals map[string]int `json:"totals"`
}

// NewLineHourAggregate creates an empty aggregate for line
func NewLineHourAggregate(line string) *LineHourAggregate {
	return &LineHourAggregate{
		Line:   line,
		Totals: make(map[string]int),
	}
}

// Add accumulates trips into the hour bucket
func (a *LineHourAggregate) Add(hour string, trips int) {
	if _, ok := a.Totals[hour]; !ok {
		a.Hours = append(a.Hours, hour)
	}
	a.Totals[hour] += trips
}

// Total sums trips across all hours
func (a LineHourAggregate) Total() int {
	total := 0
	for _, hour := range a.Hours {
		total += a.Totals[hour]
	}
	return total
}

// Category groups lines for display
type Category string

const (
	Metro    Category = "metro"
	Regional Category = "regional"
)

// Categories lists every category in display order
var Categories = []Category{Metro, Regional}

// CategoryOf classifies a line by its prefix
func CategoryOf(line string) Category {
	if strings.HasPrefix(line, MetroPrefix) {
		return Metro
	}
	return Regional
}

// ParseCategory accepts "metro" or "regional" in any case
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Metro:
		return Metro, true
	case Regional:
		return Regional, true
	}
	return "", false
}

// Title is the panel heading used by the original dashboard
func (c Category) Title() string {
	if c == Metro {
		return "Sydney Lines"
	}
	return "Regional Lines"
}

// PeakEntry is the busiest hour of a line
type PeakEntry struct {
	Line  string `json:"line"`
	Hour  string `json:"hour"`
	Trips int    `json:"trips"`
}

// Label formats the hour as HH:00
func (p PeakEntry) Label() string {
	return p.Hour + ":00"
}

// BarRow is one bar of the bar chart
type BarRow struct {
	Line  string `json:"line"`
	Trips int    `json:"trips"`
}

// HourField is the JSON key of a time-series row's hour. No line may use it
// as its name.
const HourField = "hour"

// TimeSeriesRow is one point on the time axis with a column per line
type TimeSeriesRow struct {
	Hour   string
	Lines  []string
	Values map[string]int
}

// Value returns the trips for line in this hour, 0 if absent
func (r TimeSeriesRow) Value(line string) int {
	return r.Values[line]
}

// MarshalJSON flattens the row into {"hour": ..., "<line>": n}. A column
// named HourField would be shadowed by the hour, so it is an error.
func (r TimeSeriesRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Lines)+1)
	for _, line := range r.Lines {
		if line == HourField {
			return nil, fmt.Errorf("line name %q clashes with the hour field", line)
		}
		out[line] = r.Values[line]
	}
	out[HourField] = r.Hour
	return json.Marshal(out)
}

// Selection is the set of lines picked by the user, in pick order
type Selection []string

// NewSelection drops blanks and duplicates while keeping order
func NewSelection(lines []string) Selection {
	seen := make(map[string]bool, len(lines))
	sel := make(Selection, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		sel = append(sel, line)
	}
	return sel
}

// Contains reports whether line is selected
func (s Selection) Contains(line string) bool {
	for _, l := range s {
		if l == line {
			return true
		}
	}
	return false
}

// Empty reports whether nothing is selected
func (s Selection) Empty() bool {
	return len(s) == 0
}

// ChartMode selects the chart shown for each panel
type ChartMode string

const (
	ChartBar        ChartMode = "bar"
	ChartTimeSeries ChartMode = "timeseries"
)

// Toggle flips between bar and time-series
func (m ChartMode) Toggle() ChartMode {
	if m == ChartTimeSeries {
		return ChartBar
	}
	return ChartTimeSeries
}

// ParseChartMode accepts "bar", "timeseries" or "line"
func ParseChartMode(s string) (ChartMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bar":
		return ChartBar, true
	case "timeseries", "line":
		return ChartTimeSeries, true
	}
	return "", false
}

// DatasetInfo describes the currently loaded dataset
type DatasetInfo struct {
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	Lines      int       `json:"lines"`
	Hours      int       `json:"hours"`
	LastUpdate time.Time `json:"last_update"`
}
