package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqcli/pkg/contracts/domain"
)

func TestPreparer_Prepare(t *testing.T) {
	frame := &RawFrame{
		Header: []string{"date/heure", "PM10", "TEMP", "HUMI"},
		Rows: [][]string{
			{"01/01/2023 08:00", "45,5", "12,3", "60,0"},
			{"02/01/2023 14:30", "18,9", "", "55,1"},
			{"03/01/2023 22:00", "52.0", "8.5", ""},
		},
	}

	preparer := NewPreparer(nil, "date/heure")
	readings, err := preparer.Prepare(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, readings, 3)

	first := readings[0]
	assert.Equal(t, time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, 45.5, first.PM10)
	require.NotNil(t, first.Temperature)
	assert.Equal(t, 12.3, *first.Temperature)
	require.NotNil(t, first.Humidity)
	assert.Equal(t, 60.0, *first.Humidity)
	assert.Equal(t, domain.CivilDate{Year: 2023, Month: time.January, Day: 1}, first.Date)
	assert.Equal(t, 8, first.Hour)
	assert.Equal(t, domain.Sunday, first.Weekday)
	assert.Equal(t, domain.BucketPeak, first.Bucket)

	second := readings[1]
	assert.Nil(t, second.Temperature, "empty cell stays nil")
	assert.Equal(t, domain.Monday, second.Weekday)
	assert.Equal(t, domain.BucketDaytime, second.Bucket)

	third := readings[2]
	assert.Equal(t, 52.0, third.PM10, "decimal point parses as well as decimal comma")
	assert.Nil(t, third.Humidity)
	assert.Equal(t, domain.BucketNightEvening, third.Bucket)
}

func TestPreparer_Prepare_DropsUnparseableRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{
			name: "bad timestamp dropped",
			rows: [][]string{
				{"not-a-date", "45,5", "", ""},
				{"01/01/2023 08:00", "45,5", "", ""},
			},
			want: 1,
		},
		{
			name: "empty timestamp dropped",
			rows: [][]string{
				{"", "45,5", "", ""},
			},
			want: 0,
		},
		{
			name: "missing pm10 dropped",
			rows: [][]string{
				{"01/01/2023 08:00", "", "12,0", "50,0"},
				{"01/01/2023 09:00", "n/a", "12,0", "50,0"},
				{"01/01/2023 10:00", "30,1", "12,0", "50,0"},
			},
			want: 1,
		},
		{
			name: "short row dropped via missing pm10",
			rows: [][]string{
				{"01/01/2023 08:00"},
			},
			want: 0,
		},
		{
			name: "all rows dropped yields empty collection",
			rows: [][]string{
				{"bogus", "bogus", "", ""},
			},
			want: 0,
		},
	}

	preparer := NewPreparer(nil, "date/heure")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := &RawFrame{
				Header: []string{"date/heure", "PM10", "TEMP", "HUMI"},
				Rows:   tt.rows,
			}
			readings, err := preparer.Prepare(context.Background(), frame)
			require.NoError(t, err)
			assert.Len(t, readings, tt.want)
		})
	}
}

func TestPreparer_Prepare_MissingColumns(t *testing.T) {
	preparer := NewPreparer(nil, "date/heure")

	_, err := preparer.Prepare(context.Background(), &RawFrame{
		Header: []string{"timestamp", "PM10"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp column")

	_, err = preparer.Prepare(context.Background(), &RawFrame{
		Header: []string{"date/heure", "pm_10"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PM10 column")
}

func TestPreparer_Prepare_OptionalColumnsAbsent(t *testing.T) {
	// A file without TEMP/HUMI columns still prepares; the optional fields
	// stay nil on every reading.
	frame := &RawFrame{
		Header: []string{"date/heure", "PM10"},
		Rows: [][]string{
			{"01/01/2023 08:00", "45,5"},
		},
	}

	preparer := NewPreparer(nil, "date/heure")
	readings, err := preparer.Prepare(context.Background(), frame)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Nil(t, readings[0].Temperature)
	assert.Nil(t, readings[0].Humidity)
}

func TestPreparer_Prepare_Idempotent(t *testing.T) {
	frame := &RawFrame{
		Header: []string{"date/heure", "PM10", "TEMP", "HUMI"},
		Rows: [][]string{
			{"01/01/2023 08:00", "45,5", "12,3", "60,0"},
			{"02/01/2023 14:00", "18,9", "10,0", "55,1"},
		},
	}

	preparer := NewPreparer(nil, "date/heure")
	first, err := preparer.Prepare(context.Background(), frame)
	require.NoError(t, err)
	second, err := preparer.Prepare(context.Background(), frame)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{input: "45,5", want: ptr(45.5)},
		{input: "45.5", want: ptr(45.5)},
		{input: " 12,0 ", want: ptr(12.0)},
		{input: "-3,2", want: ptr(-3.2)},
		{input: "", want: nil},
		{input: "   ", want: nil},
		{input: "n/a", want: nil},
		{input: "1,2,3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDecimal(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "day first without seconds",
			input:  "25/12/2023 17:30",
			want:   time.Date(2023, 12, 25, 17, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "day first with seconds",
			input:  "25/12/2023 17:30:15",
			want:   time.Date(2023, 12, 25, 17, 30, 15, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso with seconds",
			input:  "2023-12-25 17:30:15",
			want:   time.Date(2023, 12, 25, 17, 30, 15, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso t separator",
			input:  "2023-12-25T17:30:15",
			want:   time.Date(2023, 12, 25, 17, 30, 15, 0, time.UTC),
			wantOK: true,
		},
		{name: "garbage", input: "yesterday", wantOK: false},
		{name: "blank", input: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }
