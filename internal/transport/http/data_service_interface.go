package http

import (
	"context"

	"aqcli/pkg/contracts/domain"
)

// DataServiceInterface defines the contract between the data handler and
// the data service, kept narrow so tests can substitute a mock.
type DataServiceInterface interface {
	Bounds(ctx context.Context) (domain.Bounds, error)
	Readings(ctx context.Context, q domain.FilterQuery) ([]domain.Reading, error)
	Summary(ctx context.Context, q domain.FilterQuery) (domain.Summary, error)
	Heatmap(ctx context.Context, q domain.FilterQuery) ([]domain.HeatmapCell, error)
	Series(ctx context.Context, q domain.FilterQuery) ([]domain.SeriesPoint, error)
	Distribution(ctx context.Context, q domain.FilterQuery) ([]domain.WeekdayStats, error)
	Scatter(ctx context.Context, q domain.FilterQuery) ([]domain.ScatterPoint, error)
	ExportCSV(ctx context.Context, q domain.FilterQuery) ([]byte, string, error)
	ExportXLSX(ctx context.Context, q domain.FilterQuery) ([]byte, string, error)
	WeekdayLabels() []string
	StationName() string
}
