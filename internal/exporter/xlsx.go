package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"aqcli/internal/errors"
	"aqcli/internal/infrastructure"
	"aqcli/pkg/contracts/domain"
)

const (
	readingsSheet = "Readings"
	heatmapSheet  = "Heatmap"
)

// XLSX builds an Excel workbook with the filtered readings and a
// weekday-by-bucket mean PM10 sheet, and returns the serialized bytes.
func (e *Exporter) XLSX(readings []domain.Reading, heatmap []domain.HeatmapCell) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", readingsSheet)

	if err := e.writeReadingsSheet(f, readings); err != nil {
		return nil, err
	}
	if err := e.writeHeatmapSheet(f, heatmap); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewStorageError("failed to serialize workbook", err)
	}

	infrastructure.ExportsGenerated.WithLabelValues("xlsx").Inc()
	e.logger.Info("XLSX export generated",
		slog.Int("rows", len(readings)),
		slog.Int("heatmap_cells", len(heatmap)))

	return buf.Bytes(), nil
}

// XLSXFilename suggests a download name for the given selection.
func (e *Exporter) XLSXFilename(interval domain.Interval) string {
	return fmt.Sprintf("readings_%s_%s.xlsx", interval.Start, interval.End)
}

// writeReadingsSheet fills the readings sheet with one row per reading.
func (e *Exporter) writeReadingsSheet(f *excelize.File, readings []domain.Reading) error {
	for col, name := range exportHeader {
		cellRef, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.NewStorageError("failed to compute cell name", err)
		}
		if err := f.SetCellValue(readingsSheet, cellRef, name); err != nil {
			return errors.NewStorageError("failed to write header cell", err)
		}
	}

	for i, r := range readings {
		row := i + 2
		values := []interface{}{
			r.Timestamp.Format(exportTimestampLayout),
			r.PM10,
			optionalCell(r.Temperature),
			optionalCell(r.Humidity),
			e.WeekdayLabel(r.Weekday),
			r.Bucket.String(),
		}
		for col, v := range values {
			cellRef, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return errors.NewStorageError("failed to compute cell name", err)
			}
			if err := f.SetCellValue(readingsSheet, cellRef, v); err != nil {
				return errors.NewStorageError("failed to write reading cell", err)
			}
		}
	}

	return nil
}

// writeHeatmapSheet fills the heatmap sheet: weekday rows, bucket columns,
// mean PM10 cells. Missing combinations stay blank.
func (e *Exporter) writeHeatmapSheet(f *excelize.File, heatmap []domain.HeatmapCell) error {
	if _, err := f.NewSheet(heatmapSheet); err != nil {
		return errors.NewStorageError("failed to create heatmap sheet", err)
	}

	// Header row: bucket names across the top.
	for i, bucket := range domain.AllBuckets {
		cellRef, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return errors.NewStorageError("failed to compute cell name", err)
		}
		if err := f.SetCellValue(heatmapSheet, cellRef, bucket.String()); err != nil {
			return errors.NewStorageError("failed to write bucket header", err)
		}
	}

	// Weekday labels down the first column.
	for i, weekday := range domain.AllWeekdays {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to compute cell name", err)
		}
		if err := f.SetCellValue(heatmapSheet, cellRef, e.WeekdayLabel(weekday)); err != nil {
			return errors.NewStorageError("failed to write weekday label", err)
		}
	}

	for _, cell := range heatmap {
		cellRef, err := excelize.CoordinatesToCellName(int(cell.Bucket)+2, int(cell.Weekday)+2)
		if err != nil {
			return errors.NewStorageError("failed to compute cell name", err)
		}
		if err := f.SetCellValue(heatmapSheet, cellRef, cell.MeanPM10); err != nil {
			return errors.NewStorageError("failed to write heatmap cell", err)
		}
	}

	return nil
}

// optionalCell converts an optional float for SetCellValue, blank when nil.
func optionalCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
