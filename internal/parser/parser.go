// Package parser turns the trip count CSV into trip records.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jusunglee/trainusage/internal/models"
)

// Column names the dataset is expected to carry
const (
	ColumnLine      = "Line"
	ColumnTrip      = "Trip"
	ColumnTimestamp = "Timestamp"
)

// ErrNoHeader is returned when the input has no header row
var ErrNoHeader = errors.New("csv has no header row")

// Row maps header names to the raw field values of one data row
type Row map[string]string

// Parse reads CSV text with a header row and returns one Row per data row in
// file order. Missing trailing fields are treated as empty strings and
// surplus fields are ignored.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = name
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ToTripRecords converts parsed rows into trip records, defaulting bad fields
func ToTripRecords(rows []Row) []models.TripRecord {
	records := make([]models.TripRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.TripRecord{
			Line:  row[ColumnLine],
			Trips: ParseTrips(row[ColumnTrip]),
			Hour:  HourKey(row[ColumnTimestamp]),
		})
	}
	return records
}

// ParseRecords parses CSV text straight into trip records
func ParseRecords(r io.Reader) ([]models.TripRecord, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return ToTripRecords(rows), nil
}

// ParseTrips reads the leading decimal integer of s the way a lenient number
// parser would: "12", " 12 trips" and "+12" all give 12. Anything without
// leading digits, and any negative count, gives 0. Values too large for an
// int clamp to math.MaxInt.
func ParseTrips(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		d := int(s[digits] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
		} else {
			n = n*10 + d
		}
		digits++
	}

	if digits == 0 || negative {
		return 0
	}
	return n
}

// HourKey truncates a timestamp to its YYYY-MM-DDTHH prefix. Shorter values
// are returned unchanged and form their own bucket.
func HourKey(timestamp string) string {
	if len(timestamp) > models.HourKeyLength {
		return timestamp[:models.HourKeyLength]
	}
	return timestamp
}
