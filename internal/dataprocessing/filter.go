package dataprocessing

import (
	"sort"

	"aqcli/pkg/contracts/domain"
)

// Filter returns the readings whose date falls inside the closed interval
// and whose bucket is in the allowed set. An empty bucket set matches
// nothing, as does an interval with start after end. The result order is
// unspecified; callers needing temporal order sort explicitly.
func Filter(readings []domain.Reading, interval domain.Interval, buckets []domain.TimeBucket) []domain.Reading {
	if len(buckets) == 0 || interval.Start.After(interval.End) {
		return nil
	}

	allowed := make(map[domain.TimeBucket]bool, len(buckets))
	for _, b := range buckets {
		allowed[b] = true
	}

	var out []domain.Reading
	for _, r := range readings {
		if interval.Contains(r.Date) && allowed[r.Bucket] {
			out = append(out, r)
		}
	}
	return out
}

// SortByTimestamp orders readings chronologically in place. Views that
// render time series call this after filtering.
func SortByTimestamp(readings []domain.Reading) {
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}
