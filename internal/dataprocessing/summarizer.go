package dataprocessing

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"aqcli/pkg/contracts/domain"
)

// ErrNoData signals that a selection matched zero readings. Callers surface
// an explicit "no data" state instead of rendering NaN statistics.
var ErrNoData = errors.New("no readings in selection")

// Summarize computes the KPI block over the PM10 series of the given
// readings: mean, median, min, max, sample standard deviation and count,
// plus the quality band of the mean. The standard deviation is nil when
// fewer than two readings are available.
func Summarize(readings []domain.Reading) (domain.Summary, error) {
	if len(readings) == 0 {
		return domain.Summary{}, ErrNoData
	}

	values := make(stats.Float64Data, len(readings))
	for i, r := range readings {
		values[i] = r.PM10
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("compute mean: %w", err)
	}
	median, err := stats.Median(values)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("compute median: %w", err)
	}
	min, err := stats.Min(values)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("compute min: %w", err)
	}
	max, err := stats.Max(values)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("compute max: %w", err)
	}

	summary := domain.Summary{
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
		Count:  len(readings),
		Band:   domain.BandForMean(mean),
	}

	// Sample standard deviation (n-1 denominator) is undefined below two
	// readings; the KPI stays nil rather than erroring.
	if len(readings) >= 2 {
		sd, err := stats.StandardDeviationSample(values)
		if err != nil {
			return domain.Summary{}, fmt.Errorf("compute standard deviation: %w", err)
		}
		summary.StdDev = &sd
	}

	return summary, nil
}
