package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"aqcli/internal/config"
	"aqcli/internal/dataprocessing"
	"aqcli/internal/exporter"
	"aqcli/pkg/contracts/domain"
)

// DataService owns the station dataset and serves every dashboard view:
// filter bounds, filtered readings, KPI summaries, grouped aggregations,
// chart series and exports. The base dataset is immutable between source
// file changes; each request recomputes its view from it.
type DataService struct {
	cfg      *config.Config
	logger   *slog.Logger
	loader   *dataprocessing.Loader
	preparer *dataprocessing.Preparer
	exporter *exporter.Exporter

	// prepared memoizes the Reading collection per raw frame identity so
	// filter changes do not re-derive columns.
	mu       sync.Mutex
	lastRaw  *dataprocessing.RawFrame
	prepared []domain.Reading
}

// NewDataService creates a data service using the default logger.
func NewDataService(cfg *config.Config) *DataService {
	return NewDataServiceWithLogger(cfg, slog.Default())
}

// NewDataServiceWithLogger creates a data service with a specific logger.
func NewDataServiceWithLogger(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized",
		slog.String("source_file", cfg.Data.SourceFile),
		slog.String("station", cfg.Data.StationName))

	return &DataService{
		cfg:      cfg,
		logger:   logger,
		loader:   dataprocessing.NewLoader(logger),
		preparer: dataprocessing.NewPreparer(logger, cfg.Data.TimestampColumn),
		exporter: exporter.New(logger, cfg.Labels.WeekdayLabels(), cfg.Data.StationName),
	}
}

// Dataset returns the full prepared Reading collection. The raw parse is
// cached by the loader; the derived columns are memoized per raw frame.
// A missing source file propagates as a DATA_SOURCE error.
func (ds *DataService) Dataset(ctx context.Context) ([]domain.Reading, error) {
	frame, err := ds.loader.Load(ctx, ds.cfg.Data.SourceFile)
	if err != nil {
		return nil, err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if frame == ds.lastRaw && ds.prepared != nil {
		return ds.prepared, nil
	}

	readings, err := ds.preparer.Prepare(ctx, frame)
	if err != nil {
		return nil, err
	}

	ds.lastRaw = frame
	ds.prepared = readings
	return readings, nil
}

// Bounds returns the dataset extent used to populate the filter controls:
// min/max date, the buckets present, and the configured weekday labels.
func (ds *DataService) Bounds(ctx context.Context) (domain.Bounds, error) {
	readings, err := ds.Dataset(ctx)
	if err != nil {
		return domain.Bounds{}, err
	}
	if len(readings) == 0 {
		return domain.Bounds{}, ErrEmptyDataset
	}

	bounds := domain.Bounds{
		MinDate: readings[0].Date,
		MaxDate: readings[0].Date,
		Count:   len(readings),
	}

	seen := make(map[domain.TimeBucket]bool)
	for _, r := range readings {
		if r.Date.Before(bounds.MinDate) {
			bounds.MinDate = r.Date
		}
		if r.Date.After(bounds.MaxDate) {
			bounds.MaxDate = r.Date
		}
		seen[r.Bucket] = true
	}

	for _, b := range domain.AllBuckets {
		if seen[b] {
			bounds.Buckets = append(bounds.Buckets, b)
		}
	}

	return bounds, nil
}

// filtered applies the query to the base dataset. An empty result returns
// ErrNoData so callers surface the explicit no-data state.
func (ds *DataService) filtered(ctx context.Context, q domain.FilterQuery) ([]domain.Reading, error) {
	readings, err := ds.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	subset := dataprocessing.Filter(readings, q.Interval(), q.Buckets)
	if len(subset) == 0 {
		return nil, fmt.Errorf("filter %s..%s: %w", q.From, q.To, ErrNoData)
	}
	return subset, nil
}

// Readings returns the filtered subset sorted chronologically, for the data
// table and the time-series chart.
func (ds *DataService) Readings(ctx context.Context, q domain.FilterQuery) ([]domain.Reading, error) {
	subset, err := ds.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	dataprocessing.SortByTimestamp(subset)
	return subset, nil
}

// Summary computes the KPI block over the filtered subset.
func (ds *DataService) Summary(ctx context.Context, q domain.FilterQuery) (domain.Summary, error) {
	subset, err := ds.filtered(ctx, q)
	if err != nil {
		return domain.Summary{}, err
	}
	return dataprocessing.Summarize(subset)
}

// Heatmap computes the weekday-by-bucket mean PM10 table over the filtered
// subset, sorted in canonical order.
func (ds *DataService) Heatmap(ctx context.Context, q domain.FilterQuery) ([]domain.HeatmapCell, error) {
	subset, err := ds.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	return dataprocessing.AggregateHeatmap(subset), nil
}

// Series returns the time-ordered line series for the query's variable
// (PM10 when unset). Readings missing the optional variable are skipped.
func (ds *DataService) Series(ctx context.Context, q domain.FilterQuery) ([]domain.SeriesPoint, error) {
	variable := q.Variable
	if variable == "" {
		variable = domain.VariablePM10
	}

	subset, err := ds.Readings(ctx, q)
	if err != nil {
		return nil, err
	}

	points := make([]domain.SeriesPoint, 0, len(subset))
	for _, r := range subset {
		v, ok := variable.Value(r)
		if !ok {
			continue
		}
		points = append(points, domain.SeriesPoint{
			Timestamp: r.Timestamp.Format("2006-01-02 15:04:05"),
			Value:     v,
		})
	}
	return points, nil
}

// Distribution computes the per-weekday five-number summary of the query's
// variable (PM10 when unset), feeding the box chart.
func (ds *DataService) Distribution(ctx context.Context, q domain.FilterQuery) ([]domain.WeekdayStats, error) {
	variable := q.Variable
	if variable == "" {
		variable = domain.VariablePM10
	}

	subset, err := ds.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	return dataprocessing.WeekdayDistribution(subset, variable)
}

// Scatter returns PM10/temperature/humidity triples for the relation chart.
// Readings missing either optional series are skipped.
func (ds *DataService) Scatter(ctx context.Context, q domain.FilterQuery) ([]domain.ScatterPoint, error) {
	subset, err := ds.filtered(ctx, q)
	if err != nil {
		return nil, err
	}

	points := make([]domain.ScatterPoint, 0, len(subset))
	for _, r := range subset {
		if r.Temperature == nil || r.Humidity == nil {
			continue
		}
		points = append(points, domain.ScatterPoint{
			PM10:        r.PM10,
			Temperature: *r.Temperature,
			Humidity:    *r.Humidity,
		})
	}
	return points, nil
}

// ExportCSV serializes the filtered subset as a comma-separated UTF-8 blob
// and suggests a download filename.
func (ds *DataService) ExportCSV(ctx context.Context, q domain.FilterQuery) ([]byte, string, error) {
	subset, err := ds.Readings(ctx, q)
	if err != nil {
		return nil, "", err
	}

	blob, err := ds.exporter.CSV(subset)
	if err != nil {
		return nil, "", err
	}
	return blob, ds.exporter.CSVFilename(q.Interval()), nil
}

// ExportXLSX builds an Excel workbook with the filtered readings and the
// heatmap table, and suggests a download filename.
func (ds *DataService) ExportXLSX(ctx context.Context, q domain.FilterQuery) ([]byte, string, error) {
	subset, err := ds.Readings(ctx, q)
	if err != nil {
		return nil, "", err
	}

	blob, err := ds.exporter.XLSX(subset, dataprocessing.AggregateHeatmap(subset))
	if err != nil {
		return nil, "", err
	}
	return blob, ds.exporter.XLSXFilename(q.Interval()), nil
}

// WeekdayLabels exposes the configured Monday-first display names.
func (ds *DataService) WeekdayLabels() []string {
	return ds.cfg.Labels.WeekdayLabels()
}

// StationName returns the configured station label.
func (ds *DataService) StationName() string {
	return ds.cfg.Data.StationName
}

// Invalidate drops the loader cache, forcing a re-read of the source file.
func (ds *DataService) Invalidate() {
	ds.loader.Invalidate(ds.cfg.Data.SourceFile)
}
