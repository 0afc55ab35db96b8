// Package analysis holds the pure transforms behind the dashboard: splitting
// records by category, grouping trips by line and hour, finding peak hours
// and shaping rows for the bar and time-series charts.
//
// Every function here is total over its input and never mutates it.
package analysis

import (
	"strings"

	"github.com/jusunglee/trainusage/internal/models"
)

// Split partitions records into metro and regional lines. Records without a
// line are dropped from both outputs.
func Split(records []models.TripRecord) (metro, regional []models.TripRecord) {
	for _, r := range records {
		if r.Line == "" {
			continue
		}
		if strings.HasPrefix(r.Line, models.MetroPrefix) {
			metro = append(metro, r)
		} else {
			regional = append(regional, r)
		}
	}
	return metro, regional
}

// Aggregate sums trips per line and hour bucket. Lines come out in order of
// first appearance, and so do the hours within each line.
func Aggregate(records []models.TripRecord) []models.LineHourAggregate {
	index := make(map[string]int)
	var out []*models.LineHourAggregate

	for _, r := range records {
		i, ok := index[r.Line]
		if !ok {
			i = len(out)
			index[r.Line] = i
			out = append(out, models.NewLineHourAggregate(r.Line))
		}
		out[i].Add(r.Hour, r.Trips)
	}

	result := make([]models.LineHourAggregate, len(out))
	for i, agg := range out {
		result[i] = *agg
	}
	return result
}

// Peaks finds the busiest hour of each aggregate. On equal counts the
// earliest-seen hour wins. Aggregates with no hours are left out.
func Peaks(aggregates []models.LineHourAggregate) map[string]models.PeakEntry {
	peaks := make(map[string]models.PeakEntry, len(aggregates))

	for _, agg := range aggregates {
		found := false
		var best models.PeakEntry
		for _, hour := range agg.Hours {
			trips := agg.Totals[hour]
			if !found || trips > best.Trips {
				best = models.PeakEntry{
					Line:  agg.Line,
					Hour:  HourOfDay(hour),
					Trips: trips,
				}
				found = true
			}
		}
		if found {
			peaks[agg.Line] = best
		}
	}

	return peaks
}

// OrderedPeaks returns the peaks of the selected lines following aggregate
// order, which is the order the lines first appeared in the dataset.
func OrderedPeaks(aggregates []models.LineHourAggregate, peaks map[string]models.PeakEntry, selected models.Selection) []models.PeakEntry {
	var out []models.PeakEntry
	for _, agg := range aggregates {
		if !selected.Contains(agg.Line) {
			continue
		}
		if p, ok := peaks[agg.Line]; ok {
			out = append(out, p)
		}
	}
	return out
}

// HourOfDay extracts HH from a YYYY-MM-DDTHH bucket. Short buckets give
// whatever characters exist in that range, possibly none.
func HourOfDay(hour string) string {
	const start, end = 11, 13
	if len(hour) <= start {
		return ""
	}
	if len(hour) < end {
		return hour[start:]
	}
	return hour[start:end]
}

// ToBarRows totals each selected line across all hours, keeping aggregate order
func ToBarRows(aggregates []models.LineHourAggregate, selected models.Selection) []models.BarRow {
	rows := make([]models.BarRow, 0, len(aggregates))
	for _, agg := range aggregates {
		if !selected.Contains(agg.Line) {
			continue
		}
		rows = append(rows, models.BarRow{Line: agg.Line, Trips: agg.Total()})
	}
	return rows
}

// ToTimeSeriesRows builds one row per distinct hour across all records, with a
// column for each selected line. Hours keep their first-appearance order in
// records rather than being sorted.
func ToTimeSeriesRows(records []models.TripRecord, selected models.Selection) []models.TimeSeriesRow {
	var hours []string
	seenHour := make(map[string]bool)
	totals := make(map[string]map[string]int)

	for _, r := range records {
		if !seenHour[r.Hour] {
			seenHour[r.Hour] = true
			hours = append(hours, r.Hour)
		}
		if !selected.Contains(r.Line) {
			continue
		}
		byLine, ok := totals[r.Hour]
		if !ok {
			byLine = make(map[string]int)
			totals[r.Hour] = byLine
		}
		byLine[r.Line] += r.Trips
	}

	lines := append([]string(nil), selected...)
	rows := make([]models.TimeSeriesRow, 0, len(hours))
	for _, hour := range hours {
		values := make(map[string]int, len(lines))
		for _, line := range lines {
			values[line] = totals[hour][line]
		}
		rows = append(rows, models.TimeSeriesRow{
			Hour:   hour,
			Lines:  lines,
			Values: values,
		})
	}
	return rows
}
