package parser

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "Line,Trip,Timestamp\n" +
		"T1 North Shore Line & T1 Western Line,12,2024-09-01T08:15:00\n" +
		"Blue Mountains Line,3\n" +
		"\"Central Coast & Newcastle Line\",7,2024-09-01T09:00:00,extra\n"

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "T1 North Shore Line & T1 Western Line", rows[0][ColumnLine])
	assert.Equal(t, "12", rows[0][ColumnTrip])
	assert.Equal(t, "2024-09-01T08:15:00", rows[0][ColumnTimestamp])

	// short rows are padded with empty strings
	value, ok := rows[1][ColumnTimestamp]
	assert.True(t, ok)
	assert.Equal(t, "", value)

	assert.Equal(t, "Central Coast & Newcastle Line", rows[2][ColumnLine])
	assert.Len(t, rows[2], 3)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)

	rows, err := Parse(strings.NewReader("Line,Trip,Timestamp\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseStripsByteOrderMark(t *testing.T) {
	rows, err := Parse(strings.NewReader("\ufeffLine,Trip,Timestamp\nT2,1,2024-09-01T10:00\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "T2", rows[0][ColumnLine])
}

func TestParseTrips(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"12", 12},
		{" 7", 7},
		{"+4", 4},
		{"15 trips", 15},
		{"3.9", 3},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
		{"-", 0},
		{"0x1A", 0},
		{"99999999999999999999999999999", math.MaxInt},
		{"9223372036854775806", 9223372036854775806},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTrips(tt.input))
		})
	}
}

func TestHourKey(t *testing.T) {
	assert.Equal(t, "2024-09-01T08", HourKey("2024-09-01T08:15:00.000Z"))
	assert.Equal(t, "2024-09-01T08", HourKey("2024-09-01T08"))
	assert.Equal(t, "2024-09", HourKey("2024-09"))
	assert.Equal(t, "", HourKey(""))
}

func TestParseRecords(t *testing.T) {
	input := "Line,Trip,Timestamp\n" +
		"T3 Bankstown Line,5,2024-09-01T07:30:00\n" +
		"T3 Bankstown Line,n/a,2024-09-01T07:45:00\n" +
		",9,2024-09-01T08:00:00\n"

	records, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "T3 Bankstown Line", records[0].Line)
	assert.Equal(t, 5, records[0].Trips)
	assert.Equal(t, "2024-09-01T07", records[0].Hour)
	assert.Equal(t, 0, records[1].Trips)
	assert.Equal(t, "", records[2].Line)
}
