package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"aqcli/internal/errors"
	"aqcli/internal/infrastructure"
	"aqcli/pkg/contracts/domain"
)

// Measurement column names as they appear in the source header.
const (
	ColumnPM10        = "PM10"
	ColumnTemperature = "TEMP"
	ColumnHumidity    = "HUMI"
)

// timestampLayouts are tried in order. The station exports day-first local
// timestamps; ISO variants cover re-serialized files.
var timestampLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Preparer converts the raw dataset into the enriched Reading collection:
// numeric normalization, timestamp parsing, row filtering, and the derived
// calendar/time-of-day features. Pure transformation, no side effects
// beyond logging and counters.
type Preparer struct {
	logger          *slog.Logger
	timestampColumn string
}

// NewPreparer creates a preparer reading timestamps from the given column.
func NewPreparer(logger *slog.Logger, timestampColumn string) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preparer{
		logger:          logger.With(slog.String("component", "preparer")),
		timestampColumn: timestampColumn,
	}
}

// Prepare builds the Reading collection from a raw frame. Rows whose
// timestamp or PM10 value cannot be parsed are dropped; rows with missing
// temperature or humidity are retained with nil fields. An input where
// every row is dropped yields an empty collection, not an error.
func (p *Preparer) Prepare(ctx context.Context, frame *RawFrame) ([]domain.Reading, error) {
	tsIdx := frame.ColumnIndex(p.timestampColumn)
	pm10Idx := frame.ColumnIndex(ColumnPM10)
	tempIdx := frame.ColumnIndex(ColumnTemperature)
	humiIdx := frame.ColumnIndex(ColumnHumidity)

	if tsIdx < 0 {
		return nil, errors.NewParsingError("timestamp column not found in header", nil).
			WithContext("column", p.timestampColumn)
	}
	if pm10Idx < 0 {
		return nil, errors.NewParsingError("PM10 column not found in header", nil).
			WithContext("column", ColumnPM10)
	}

	readings := make([]domain.Reading, 0, len(frame.Rows))
	var droppedTimestamp, droppedPM10 int

	for _, row := range frame.Rows {
		ts, ok := parseTimestamp(cell(row, tsIdx))
		if !ok {
			droppedTimestamp++
			continue
		}

		pm10 := parseDecimal(cell(row, pm10Idx))
		if pm10 == nil {
			droppedPM10++
			continue
		}

		readings = append(readings, domain.Reading{
			Timestamp:   ts,
			PM10:        *pm10,
			Temperature: parseDecimal(cell(row, tempIdx)),
			Humidity:    parseDecimal(cell(row, humiIdx)),
			Date:        domain.DateOf(ts),
			Hour:        ts.Hour(),
			Weekday:     domain.WeekdayOf(ts),
			Bucket:      domain.BucketForHour(ts.Hour()),
		})
	}

	infrastructure.RowsPrepared.Add(float64(len(readings)))
	infrastructure.RowsDropped.WithLabelValues("timestamp").Add(float64(droppedTimestamp))
	infrastructure.RowsDropped.WithLabelValues("pm10").Add(float64(droppedPM10))

	p.logger.InfoContext(ctx, "dataset prepared",
		slog.Int("rows_in", len(frame.Rows)),
		slog.Int("rows_out", len(readings)),
		slog.Int("dropped_timestamp", droppedTimestamp),
		slog.Int("dropped_pm10", droppedPM10))

	return readings, nil
}

// cell safely extracts a column from a possibly short row.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseDecimal parses a decimal-comma formatted number. Empty or
// unparseable values become nil, never an error.
func parseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseTimestamp tries the known layouts in order. Timestamps are naive
// local time; no time zone conversion is applied.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
