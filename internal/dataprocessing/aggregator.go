package dataprocessing

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"aqcli/pkg/contracts/domain"
)

// groupKey identifies one (weekday, bucket) cell.
type groupKey struct {
	weekday domain.Weekday
	bucket  domain.TimeBucket
}

// AggregateHeatmap groups readings by (weekday, bucket) and computes the
// mean PM10 per group. Only combinations present in the input appear.
// Output is sorted by the canonical weekday then bucket order, so the
// consumer can render rows directly.
func AggregateHeatmap(readings []domain.Reading) []domain.HeatmapCell {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[groupKey]*acc)

	for _, r := range readings {
		key := groupKey{weekday: r.Weekday, bucket: r.Bucket}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.sum += r.PM10
		g.count++
	}

	cells := make([]domain.HeatmapCell, 0, len(groups))
	for key, g := range groups {
		cells = append(cells, domain.HeatmapCell{
			Weekday:  key.weekday,
			Bucket:   key.bucket,
			MeanPM10: g.sum / float64(g.count),
			Count:    g.count,
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Weekday != cells[j].Weekday {
			return cells[i].Weekday < cells[j].Weekday
		}
		return cells[i].Bucket < cells[j].Bucket
	})

	return cells
}

// WeekdayDistribution computes the five-number summary of the selected
// variable per weekday, feeding the box chart. Readings where the optional
// variable is missing are skipped; weekdays with no usable readings do not
// appear. Output is sorted Monday-first.
func WeekdayDistribution(readings []domain.Reading, variable domain.Variable) ([]domain.WeekdayStats, error) {
	grouped := make(map[domain.Weekday]stats.Float64Data)
	for _, r := range readings {
		v, ok := variable.Value(r)
		if !ok {
			continue
		}
		grouped[r.Weekday] = append(grouped[r.Weekday], v)
	}

	out := make([]domain.WeekdayStats, 0, len(grouped))
	for weekday, values := range grouped {
		entry, err := fiveNumberSummary(values)
		if err != nil {
			return nil, fmt.Errorf("distribution for %s: %w", weekday, err)
		}
		entry.Weekday = weekday
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Weekday < out[j].Weekday
	})

	return out, nil
}

// fiveNumberSummary computes min/Q1/median/Q3/max for one group. Groups too
// small for quartiles collapse Q1 and Q3 onto the median.
func fiveNumberSummary(values stats.Float64Data) (domain.WeekdayStats, error) {
	min, err := stats.Min(values)
	if err != nil {
		return domain.WeekdayStats{}, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return domain.WeekdayStats{}, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return domain.WeekdayStats{}, err
	}

	entry := domain.WeekdayStats{
		Min:    min,
		Q1:     median,
		Median: median,
		Q3:     median,
		Max:    max,
		Count:  len(values),
	}

	if quartiles, err := stats.Quartile(values); err == nil {
		entry.Q1 = quartiles.Q1
		entry.Q3 = quartiles.Q3
	}

	return entry, nil
}
