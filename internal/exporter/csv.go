package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"aqcli/internal/errors"
	"aqcli/internal/infrastructure"
	"aqcli/pkg/contracts/domain"
)

// exportTimestampLayout is the timestamp format used in export files.
const exportTimestampLayout = "2006-01-02 15:04:05"

// exportHeader is the fixed column set of every export.
var exportHeader = []string{"timestamp", "PM10", "TEMP", "HUMI", "weekday", "time_bucket"}

// Exporter converts a filtered Reading subset into downloadable artifacts.
// Weekday display names come from the configured label set so exports match
// the dashboard locale.
type Exporter struct {
	logger        *slog.Logger
	weekdayLabels []string
	stationName   string
}

// New creates an exporter. labels must hold seven Monday-first weekday
// names; a short set falls back to the English defaults.
func New(logger *slog.Logger, weekdayLabels []string, stationName string) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if len(weekdayLabels) != 7 {
		weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	}
	return &Exporter{
		logger:        logger.With(slog.String("component", "exporter")),
		weekdayLabels: weekdayLabels,
		stationName:   stationName,
	}
}

// WeekdayLabel returns the display name of a weekday.
func (e *Exporter) WeekdayLabel(d domain.Weekday) string {
	if d < domain.Monday || d > domain.Sunday {
		return "Unknown"
	}
	return e.weekdayLabels[d]
}

// CSV serializes the readings as a comma-separated UTF-8 blob with a header
// row. Missing temperature and humidity values export as empty cells.
func (e *Exporter) CSV(readings []domain.Reading) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, errors.NewStorageError("failed to write CSV header row", err)
	}

	for i, r := range readings {
		row := []string{
			r.Timestamp.Format(exportTimestampLayout),
			formatFloat(r.PM10),
			formatOptional(r.Temperature),
			formatOptional(r.Humidity),
			e.WeekdayLabel(r.Weekday),
			r.Bucket.String(),
		}
		if err := writer.Write(row); err != nil {
			return nil, errors.NewStorageError(fmt.Sprintf("failed to write CSV row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.NewStorageError("failed to flush CSV writer", err)
	}

	infrastructure.ExportsGenerated.WithLabelValues("csv").Inc()
	e.logger.Info("CSV export generated",
		slog.Int("rows", len(readings)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// CSVFilename suggests a download name for the given selection.
func (e *Exporter) CSVFilename(interval domain.Interval) string {
	return fmt.Sprintf("readings_%s_%s.csv", interval.Start, interval.End)
}

// formatFloat renders a float with the shortest exact representation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders an optional float, empty when nil.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
